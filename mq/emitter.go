package mq

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"tixplate/logger"
)

type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityID   string `json:"entity_id"`
}

// Emitter forwards entity change notifications to an external indexer.
// Best effort: without a configured endpoint changes are only logged, and
// a failed delivery never fails the originating request.
type Emitter struct {
	url   string
	httpc *http.Client
}

func NewEmitter(url string) *Emitter {
	return &Emitter{
		url:   url,
		httpc: &http.Client{Timeout: 5 * time.Second},
	}
}

func (e *Emitter) Emit(ctx context.Context, idx Index) {
	if e == nil {
		return
	}
	if e.url == "" {
		logger.Debug("index event", zap.String("entity", idx.EntityType), zap.String("method", idx.Method), zap.String("id", idx.EntityID))
		return
	}

	payload, err := json.Marshal(idx)
	if err != nil {
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpc.Do(req)
	if err != nil {
		logger.Warn("index emit failed", zap.Error(err))
		return
	}
	resp.Body.Close()
}
