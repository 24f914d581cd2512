package convert

import "github.com/amirasaad/quickcurrency/pkg/parser"

// TextRequest carries a raw selection, plain text or HTML.
type TextRequest struct {
	Text string `json:"text" validate:"required"`
}

// ParseResponse is the currency amount found in a selection.
type ParseResponse struct {
	Currency string      `json:"currency"`
	Amount   float64     `json:"amount"`
	Rule     parser.Rule `json:"rule"`
}

// ProxyResponse mirrors the standalone proxy's /convert body so another
// instance can use this server as its proxy.
type ProxyResponse struct {
	Result float64 `json:"result"`
	Cached bool    `json:"cached"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Source string  `json:"source,omitempty"`
}
