// Package reply defines the outbound message model handed to the messaging
// transport: text, an optional control grid, or a file attachment.
package reply

// Control is one tappable button: a label shown to the user and the opaque
// action token delivered back when pressed.
type Control struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// File is an attachment, used for CSV exports.
type File struct {
	Name    string `json:"name"`
	Data    []byte `json:"data"`
	Caption string `json:"caption,omitempty"`
}

// Reply is one outbound message. Edit marks replies that should update the
// previously sent message in place rather than send a new one.
type Reply struct {
	Text     string      `json:"text,omitempty"`
	Markdown bool        `json:"markdown,omitempty"`
	Controls [][]Control `json:"controls,omitempty"`
	File     *File       `json:"file,omitempty"`
	Edit     bool        `json:"edit,omitempty"`
}

// Text builds a plain text reply.
func Text(text string) Reply {
	return Reply{Text: text}
}

// Markdown builds a markdown-formatted reply with an optional control grid.
func Markdown(text string, controls [][]Control) Reply {
	return Reply{Text: text, Markdown: true, Controls: controls}
}
