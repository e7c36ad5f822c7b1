// internal/domain/models/file.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// File records an uploaded attachment. The bytes live on local disk
// under the configured upload directory; StoredPath is the path
// relative to that directory (not content-addressed, no dedup).
type File struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EntityRef   `bson:",inline"`
	UploadedBy  primitive.ObjectID `bson:"uploaded_by" json:"uploadedBy"`
	FileName    string             `bson:"file_name" json:"fileName"`
	StoredPath  string             `bson:"stored_path" json:"storedPath"`
	Size        int64              `bson:"size" json:"size"`
	ContentType string             `bson:"content_type,omitempty" json:"contentType,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
