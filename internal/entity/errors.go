package entity

import "errors"

var (
	// Session errors
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidFile      = errors.New("invalid image file")
	ErrInvalidRequest   = errors.New("Please upload an image and provide a prompt.")
	ErrBusy             = errors.New("an edit is already in progress")
	ErrRateLimited      = errors.New("too many edit requests, please wait a moment")
	ErrUnknownQuickEdit = errors.New("unknown quick edit")
	ErrNothingToExport  = errors.New("no image to download")
	ErrSuperseded       = errors.New("edit result discarded, the image was replaced while it was running")

	// Remote edit errors
	ErrConfiguration = errors.New("API_KEY environment variable not set.")
	ErrAuth          = errors.New("Your API key is invalid. Please check your configuration.")
	ErrEmptyResponse = errors.New("No image data found in the model response.")
	ErrRemote        = errors.New("Failed to process the image. The model may not be able to fulfill this request.")
)

// UserMessage reduces err to the text stored as the session error.
// Remote failures show only their category text; the wrapped cause goes to logs.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, known := range []error{ErrConfiguration, ErrAuth, ErrEmptyResponse, ErrRemote, ErrRateLimited, ErrInvalidRequest, ErrInvalidFile} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}
