package alerts

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"tripwatch/destinations"
	"tripwatch/settings"
	"tripwatch/utils"
)

// GET /api/alerts/briefing
// Renders a printable safety briefing for the active destination: trip
// window, the ranked alert list with severity and tips, and a QR code
// linking back to the shared trip page.
func SafetyBriefing(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	active, err := destinations.ActiveForUser(ctx, userID)
	if err != nil {
		log.Printf("active destination lookup failed for %s: %v", userID, err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to resolve active destination")
		return
	}
	if active == nil {
		utils.RespondWithError(w, http.StatusNotFound, "No active destination to brief")
		return
	}

	stored, err := fetchStored(ctx)
	if err != nil {
		log.Printf("alert fetch failed: %v", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to fetch alerts")
		return
	}

	prefs := settings.ForUser(ctx, userID)
	briefed := ForDestination(FilterByPreferences(stored, prefs.MinSeverity, prefs.MutedTypes), active, nil)

	shareBase := os.Getenv("SHARE_BASE_URL")
	if shareBase == "" {
		shareBase = "https://tripwatch.app/d/"
	}
	qrPNG, err := qrcode.Encode(shareBase+active.DestinationID, qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Trip Safety Briefing")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Destination: %s", active.DestinationName))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Dates: %s to %s", active.StartDate, active.EndDate))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 15, 35, 35, false, imageOpts, 0, "")

	if len(briefed) == 0 {
		pdf.Cell(0, 10, "No active alerts for this destination.")
	}
	for _, alert := range briefed {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, fmt.Sprintf("[%s] %s", alert.Severity, alert.Title))
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, alert.Description, "", "L", false)
		for _, tip := range alert.Tips {
			pdf.MultiCell(0, 6, "- "+tip, "", "L", false)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=briefing-"+active.DestinationID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
