package cli

import (
	"context"
	"fmt"
	"log"
)

// Upload pushes a PDF to storage and selects it as the active document, then
// waits for backend processing so the document is immediately usable.
func (a *App) Upload(ctx context.Context, path string) error {
	docID, err := a.docService.Upload(ctx, path)
	if err != nil {
		log.Printf("Upload failed: %s", err.Error())
		return err
	}

	fmt.Printf("Uploaded, document id %s. Waiting for processing...\n", docID)
	return a.Wait(ctx, docID)
}

// Wait blocks until the backend reports the document processed. With an
// empty id the active document is used.
func (a *App) Wait(ctx context.Context, docID string) error {
	if docID == "" {
		docID = a.state.ActiveDocumentID()
	}
	if docID == "" {
		fmt.Println("No document to wait for. Run upload first.")
		return nil
	}

	status, err := a.docService.WaitReady(ctx, docID)
	if err != nil {
		log.Printf("Processing wait failed: %s", err.Error())
		return err
	}

	fmt.Printf("Document %s is %s. You can now 'send' questions about it.\n", shortID(status.DocID), status.Status)
	return nil
}

// Pending lists uploads still awaiting backend processing.
func (a *App) Pending(ctx context.Context) error {
	docs, err := a.docService.Pending(ctx)
	if err != nil {
		log.Printf("Listing failed: %s", err.Error())
		return err
	}
	if len(docs) == 0 {
		fmt.Println("No pending uploads")
		return nil
	}
	for _, d := range docs {
		fmt.Printf("%s  %s  uploaded %s\n", shortID(d.ID), d.FileName, d.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// Export writes the cached payload of a pending upload back to disk.
func (a *App) Export(ctx context.Context, docID string) error {
	path, err := a.docService.Export(ctx, docID)
	if err != nil {
		log.Printf("Export failed: %s", err.Error())
		return err
	}
	fmt.Println("Written to " + path)
	return nil
}
