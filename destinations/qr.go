package destinations

import (
	"context"
	"net/http"
	"os"
	"time"

	"tripwatch/db"
	"tripwatch/models"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

func shareBaseURL() string {
	if base := os.Getenv("SHARE_BASE_URL"); base != "" {
		return base
	}
	return "https://tripwatch.app/d/"
}

// GET /api/destinations/qr/:id
// Renders a share QR code for the trip as a PNG.
func ShareQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	destinationID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var destination models.Destination
	err := db.DestinationsCollection.FindOne(ctx,
		bson.M{"destinationid": destinationID, "user_id": userID}).Decode(&destination)
	if err != nil {
		http.Error(w, "Destination not found", http.StatusNotFound)
		return
	}

	png, err := qrcode.Encode(shareBaseURL()+destinationID, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
