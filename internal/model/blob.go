package model

// ImageBlob is the binary payload of an image card. Cards reference it by ID.
type ImageBlob struct {
	ID       string
	Data     []byte
	MIMEType string
}
