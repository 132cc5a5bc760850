package entity

// InboundMessage is one email as handed to us by an inbox source.
// The engine only reads it; ownership stays with the caller.
type InboundMessage struct {
	Subject string `json:"subject"`
	From    string `json:"from"`
	Date    string `json:"date"`
	Body    string `json:"body"`
}
