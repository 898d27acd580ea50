package models

// GeoLocation describes where a request came from
type GeoLocation struct {
	Country  string `json:"country"`
	City     string `json:"city"`
	Timezone string `json:"timezone"`
}

// BrowserInfo describes the client user agent
type BrowserInfo struct {
	Browser  string `json:"browser"`
	Version  string `json:"version"`
	OS       string `json:"os"`
	Platform string `json:"platform"`
	IsMobile bool   `json:"isMobile"`
}

// ClientInfo is attached to subscriber notifications about site activity
type ClientInfo struct {
	IP        string       `json:"ip"`
	Location  *GeoLocation `json:"location,omitempty"` // nil when unknown
	Browser   BrowserInfo  `json:"browser"`
	Timestamp string       `json:"timestamp"`
}
