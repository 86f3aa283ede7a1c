package utils

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// SendSSEData 发送已编码的 data 帧
func SendSSEData(w http.ResponseWriter, flusher http.Flusher, data []byte) {
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		log.Debug().Err(err).Msg("failed to write sse payload")
		return
	}
	flusher.Flush()
}

// SendSSEComment 发送注释帧，用于保持连接
func SendSSEComment(w http.ResponseWriter, flusher http.Flusher, t time.Time) {
	if _, err := fmt.Fprintf(w, ": ping %d\n\n", t.Unix()); err != nil {
		log.Debug().Err(err).Msg("failed to write sse keep-alive")
		return
	}
	flusher.Flush()
}

// SetupSSEHeaders 设置Server-Sent Events响应头
func SetupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}
