package media

import "context"

// Kind selects the folder and default content type of an uploaded asset.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Asset is a stored media object: a public URL plus the provider id needed to delete it.
type Asset struct {
	URL string
	ID  string
}

// Provider stores binary media on behalf of the API.
type Provider interface {
	// Upload sends the file at path to the provider.
	Upload(ctx context.Context, path string, kind Kind) (Asset, error)
	// Delete removes a previously uploaded asset. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}
