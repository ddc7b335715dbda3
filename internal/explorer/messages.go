package explorer

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Input is a message from the browser.
//
//	{"type":"key","key":"E"}
//	{"type":"click","x":120,"y":45,"button":0}
//	{"type":"resize","width":1024,"height":768}
type Input struct {
	Type   string `json:"type"`
	Key    string `json:"key,omitempty"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	Button int    `json:"button,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Status follows every frame pushed to the browser.
type Status struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Stats   string `json:"stats"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Closed  bool   `json:"closed,omitempty"`
}

// DecodeInput parses one browser message.
func DecodeInput(data []byte) (Input, error) {
	var in Input
	if err := sonic.Unmarshal(data, &in); err != nil {
		return Input{}, fmt.Errorf("failed to decode input: %w", err)
	}
	return in, nil
}

// EncodeStatus serializes a status message.
func EncodeStatus(st Status) ([]byte, error) {
	st.Type = "status"
	b, err := sonic.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to encode status: %w", err)
	}
	return b, nil
}

// Apply routes a decoded input to the session. Clicks with any button other
// than the primary one are ignored.
func (s *Session) Apply(in Input) (string, error) {
	switch in.Type {
	case "key":
		return s.Key(in.Key)
	case "click":
		if in.Button != 0 {
			return "", nil
		}
		if err := s.Click(in.X, in.Y); err != nil {
			return "", err
		}
		return "recentered", nil
	case "resize":
		if err := s.Resize(in.Width, in.Height); err != nil {
			return "", err
		}
		return fmt.Sprintf("window %dx%d", in.Width, in.Height), nil
	default:
		return "", fmt.Errorf("unknown input type %q", in.Type)
	}
}
