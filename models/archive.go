package models

// ArchivedQuote is a generated quote PDF stored in the Drive archive folder
type ArchivedQuote struct {
	FileID      string `json:"fileId"`
	Name        string `json:"name"`
	CreatedTime string `json:"createdTime"`
	WebViewLink string `json:"webViewLink,omitempty"`
}
