package common

// AppName identifies the local mirror store and config/data directories.
const AppName = "askpdf"

// AccessTokenCookieName is the session cookie the backend sets after a
// successful OAuth exchange and rotates on refresh.
const AccessTokenCookieName = "access_token"
