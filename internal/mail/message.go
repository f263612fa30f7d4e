package mail

// Message is a composed notification ready for a Transport
type Message struct {
	FromName string
	From     string
	To       string
	Subject  string
	Text     string
	HTML     string
	Inline   []InlineImage
}

// InlineImage is an attachment referenced from the HTML body as cid:CID
type InlineImage struct {
	CID         string
	Filename    string
	ContentType string
	Data        []byte
}
