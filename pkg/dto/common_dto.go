package dto

import "io"

// Upload is a file handed from a multipart handler to a service. The service
// decides which storage folder it lands in.
type Upload struct {
	Reader   io.Reader
	Filename string
}
