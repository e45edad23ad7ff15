// Package transport is the outer per-frame websocket shell around the
// morph engine: a JSON request/response frame per call, an upgrader
// tuned for large frames, and emoji-prefixed lifecycle logging.
package transport

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/jpeg"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"facemorph/config"
	"facemorph/internal/landmarks"
	"facemorph/internal/morph"
)

// FrameRequest is the per-call wire format: base64 JPEG source/target
// frames, their landmark arrays in landmarks.ParseJSON's tolerant format
// (top-level array of [x,y] pairs, tolerant of null/non-finite entries),
// the blend strength and the animal-target flag. Alpha and IsAnimal are
// pointers so an omitted field (nil) can be told apart from an explicit
// zero/false value sent by the caller — JSON's bare 0 and false are
// otherwise indistinguishable from "unset" on plain float64/bool fields,
// which would silently promote a deliberate alpha=0 pass-through request
// to the configured default.
type FrameRequest struct {
	SourceJPEG string          `json:"source_jpeg"`
	TargetJPEG string          `json:"target_jpeg"`
	SourceLM   json.RawMessage `json:"source_landmarks"`
	TargetLM   json.RawMessage `json:"target_landmarks"`
	Alpha      *float64        `json:"alpha"`
	IsAnimal   *bool           `json:"is_animal"`
}

// FrameResponse is the per-call wire format returned to the caller.
type FrameResponse struct {
	Success      bool   `json:"success"`
	OutputJPEG   string `json:"output_jpeg,omitempty"`
	ErrorKind    string `json:"error_kind,omitempty"`
	Error        string `json:"error,omitempty"`
	ProcessingMs int64  `json:"processing_time_ms"`
}

// Server wires the morph engine into a websocket handler.
type Server struct {
	engine   *morph.Engine
	cfg      *config.Config
	upgrader websocket.Upgrader
}

// New builds a Server for cfg, driving calls through engine.
func New(engine *morph.Engine, cfg *config.Config) *Server {
	maxBytes := cfg.Server.MaxMessageSizeMB * 1024 * 1024
	return &Server{
		engine: engine,
		cfg:    cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  maxBytes,
			WriteBufferSize: maxBytes,
		},
	}
}

// ServeHTTP upgrades the connection and runs the per-frame read loop.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	clientAddr := conn.RemoteAddr().String()
	log.Printf("🌐 client connected: %s", clientAddr)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("❌ websocket error from %s: %v", clientAddr, err)
			}
			break
		}

		resp := s.handleFrame(data)
		out, err := json.Marshal(resp)
		if err != nil {
			log.Printf("❌ failed to encode response for %s: %v", clientAddr, err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
			log.Printf("❌ failed to send response to %s: %v", clientAddr, err)
			break
		}
	}

	log.Printf("🔌 client disconnected: %s", clientAddr)
}

func (s *Server) handleFrame(data []byte) FrameResponse {
	start := time.Now()

	var req FrameRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return FrameResponse{Success: false, Error: "malformed request: " + err.Error()}
	}

	src, err := decodeJPEG(req.SourceJPEG)
	if err != nil {
		return FrameResponse{Success: false, Error: "bad source_jpeg: " + err.Error()}
	}
	tgt, err := decodeJPEG(req.TargetJPEG)
	if err != nil {
		return FrameResponse{Success: false, Error: "bad target_jpeg: " + err.Error()}
	}

	srcLm, err := landmarks.ParseJSON(req.SourceLM)
	if err != nil {
		return FrameResponse{Success: false, Error: "bad source_landmarks: " + err.Error()}
	}
	tgtLm, err := landmarks.ParseJSON(req.TargetLM)
	if err != nil {
		return FrameResponse{Success: false, Error: "bad target_landmarks: " + err.Error()}
	}

	alpha := 1.0
	if s.cfg != nil {
		alpha = s.cfg.Engine.DefaultAlpha
	}
	if req.Alpha != nil {
		alpha = *req.Alpha
	}

	isAnimal := false
	if s.cfg != nil {
		isAnimal = s.cfg.Engine.IsAnimalDefault
	}
	if req.IsAnimal != nil {
		isAnimal = *req.IsAnimal
	}

	out := image.NewRGBA(src.Bounds())
	morphErr := s.engine.Morph(src, tgt, srcLm, tgtLm, alpha, out, isAnimal)

	elapsed := time.Since(start).Milliseconds()

	if morphErr != nil && !morphErr.Recoverable() {
		log.Printf("❌ morph call failed: %v", morphErr)
		return FrameResponse{
			Success:      false,
			ErrorKind:    morphErr.Kind.String(),
			Error:        morphErr.Error(),
			ProcessingMs: elapsed,
		}
	}

	quality := 85
	if s.cfg != nil && s.cfg.Engine.JPEGQuality > 0 {
		quality = s.cfg.Engine.JPEGQuality
	}
	encoded, err := encodeJPEG(out, quality)
	if err != nil {
		return FrameResponse{Success: false, Error: "failed to encode output: " + err.Error(), ProcessingMs: elapsed}
	}

	resp := FrameResponse{
		Success:      true,
		OutputJPEG:   encoded,
		ProcessingMs: elapsed,
	}
	if morphErr != nil {
		resp.ErrorKind = morphErr.Kind.String()
	}
	return resp
}

func decodeJPEG(b64 string) (*image.RGBA, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			rgba.Set(x, y, img.At(x, y))
		}
	}
	return rgba, nil
}

func encodeJPEG(img *image.RGBA, quality int) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
