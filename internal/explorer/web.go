package explorer

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/ironsheep/mandel-mcp/internal/imaging"
)

//go:embed index.html
var indexHTML []byte

// Handler serves the explorer page and its websocket. Every websocket
// connection gets its own Session.
type Handler struct {
	cfg     Config
	origins []string
	mux     *http.ServeMux

	// newEncoder supplies the snapshot encoder for each session.
	newEncoder func() imaging.Encoder
}

// NewHandler returns the explorer's HTTP handler. originPatterns are passed
// to the websocket origin check; none means same-origin only.
func NewHandler(cfg Config, originPatterns ...string) *Handler {
	h := &Handler{
		cfg:     cfg,
		origins: originPatterns,
		mux:     http.NewServeMux(),
		newEncoder: func() imaging.Encoder {
			return imaging.PNGEncoder{Dir: cfg.OutputDir}
		},
	}
	h.mux.HandleFunc("/ws", h.serveWS)
	h.mux.HandleFunc("/", h.serveIndex)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(indexHTML); err != nil {
		log.Printf("Failed to write index: %v", err)
	}
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		log.Println(err)
		return
	}
	defer c.CloseNow()

	if err := h.run(r.Context(), c, NewSession(h.cfg, h.newEncoder())); err != nil {
		log.Printf("Explorer session ended: %v", err)
	}
}

// run drives one session: push the initial frame, then apply each input and
// push the result until the client leaves or presses Escape.
func (h *Handler) run(ctx context.Context, c *websocket.Conn, sess *Session) error {
	log.Printf("Explorer session started (%dx%d)", h.cfg.Width, h.cfg.Height)

	if err := push(ctx, c, sess, "ready", nil); err != nil {
		return err
	}

	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if typ != websocket.MessageText {
			continue
		}

		in, err := DecodeInput(data)
		if err != nil {
			log.Printf("Ignoring input: %v", err)
			continue
		}

		msg, applyErr := sess.Apply(in)
		if applyErr != nil {
			log.Printf("Input %s failed: %v", in.Type, applyErr)
		}

		if sess.Closed() {
			if err := writeStatus(ctx, c, sess, msg, nil); err != nil {
				return err
			}
			return c.Close(websocket.StatusNormalClosure, "closed")
		}
		if err := push(ctx, c, sess, msg, applyErr); err != nil {
			return err
		}
	}
}

// push sends the current frame as a binary PNG message followed by a status
// text message.
func push(ctx context.Context, c *websocket.Conn, sess *Session, msg string, applyErr error) error {
	data, _, err := imaging.EncodePNG(sess.Frame(), 1)
	if err != nil {
		return err
	}
	if err := c.Write(ctx, websocket.MessageBinary, data); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return writeStatus(ctx, c, sess, msg, applyErr)
}

func writeStatus(ctx context.Context, c *websocket.Conn, sess *Session, msg string, applyErr error) error {
	w, hgt := sess.Size()
	st := Status{
		Message: msg,
		Stats:   sess.View().Stats(),
		Width:   w,
		Height:  hgt,
		Closed:  sess.Closed(),
	}
	if applyErr != nil {
		st.Error = applyErr.Error()
	}
	b, err := EncodeStatus(st)
	if err != nil {
		return err
	}
	if err := c.Write(ctx, websocket.MessageText, b); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	return nil
}

// ListenAndServe serves the explorer on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on http://%s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
