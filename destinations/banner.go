package destinations

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"tripwatch/db"
	"tripwatch/models"
	"tripwatch/mq"
	"tripwatch/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const bannerUploadDir = "./static/destpic/"

var supportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// POST /api/destinations/:id/banner
// Saves the uploaded banner and a 300px-wide thumbnail next to it.
func UploadBanner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}
	destinationID := ps.ByName("id")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var destination models.Destination
	err := db.DestinationsCollection.FindOne(ctx,
		bson.M{"destinationid": destinationID, "user_id": userID}).Decode(&destination)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "Destination not found", http.StatusNotFound)
		} else {
			http.Error(w, "Database error", http.StatusInternalServerError)
		}
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Unable to parse form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("banner")
	if err != nil {
		http.Error(w, "No banner file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !supportedImageTypes[header.Header.Get("Content-Type")] {
		http.Error(w, "Invalid file type. Supported formats: JPEG, PNG, WebP.", http.StatusBadRequest)
		return
	}

	img, err := imaging.Decode(file)
	if err != nil {
		http.Error(w, "Failed to decode image", http.StatusBadRequest)
		return
	}

	thumbDir := filepath.Join(bannerUploadDir, "thumb")
	if err := os.MkdirAll(thumbDir, 0755); err != nil {
		http.Error(w, "Failed to create upload directory", http.StatusInternalServerError)
		return
	}

	fileName := destinationID + ".jpg"
	originalPath := filepath.Join(bannerUploadDir, fileName)
	thumbnailPath := filepath.Join(thumbDir, fileName)

	if err := imaging.Save(img, originalPath); err != nil {
		http.Error(w, "Failed to save banner", http.StatusInternalServerError)
		return
	}

	thumbImg := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumbImg, thumbnailPath); err != nil {
		http.Error(w, "Failed to save thumbnail", http.StatusInternalServerError)
		return
	}

	bannerURL := "/static/destpic/" + fileName
	_, err = db.DestinationsCollection.UpdateOne(ctx,
		bson.M{"destinationid": destinationID, "user_id": userID},
		bson.M{"$set": bson.M{"banner": bannerURL, "updated_at": time.Now()}},
	)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to update destination: %v", err), http.StatusInternalServerError)
		return
	}

	mq.Emit(ctx, "destination-banner", models.Index{
		EntityType: "destination", Method: "PATCH", EntityId: userID, ItemId: destinationID,
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true, "banner": bannerURL})
}
