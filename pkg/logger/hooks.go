package logger

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

var errorLevels = []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}

// lineFormatter renders "[ts] [LEVEL] [prefix]: message".
type lineFormatter struct {
	colors bool
}

func entryLevel(e *logrus.Entry) LogLevel {
	if lvl, ok := e.Data[fieldLevel].(LogLevel); ok {
		return lvl
	}
	switch e.Level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return LevelCritical
	case logrus.ErrorLevel:
		return LevelError
	case logrus.WarnLevel:
		return LevelWarn
	case logrus.DebugLevel, logrus.TraceLevel:
		return LevelDebug
	default:
		return LevelInfo
	}
}

func entryPrefix(e *logrus.Entry) string {
	prefix, _ := e.Data[fieldPrefix].(string)
	return prefix
}

// Format implements logrus.Formatter
func (f *lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	level := entryLevel(e)
	timestamp := e.Time.Format("2006-01-02 15:04:05")

	if f.colors {
		return []byte(fmt.Sprintf("[%s] [%s%s%s] [%s]: %s\n",
			timestamp, level.Color(), level.String(), colorReset, entryPrefix(e), e.Message)), nil
	}
	return []byte(fmt.Sprintf("[%s] [%s] [%s]: %s\n",
		timestamp, level.String(), entryPrefix(e), e.Message)), nil
}

// fileHook writes uncolored lines for the given levels to w.
type fileHook struct {
	mu        sync.Mutex
	w         io.Writer
	levels    []logrus.Level
	formatter logrus.Formatter
}

func newFileHook(w io.Writer, levels []logrus.Level) *fileHook {
	return &fileHook{w: w, levels: levels, formatter: &lineFormatter{}}
}

func (h *fileHook) Levels() []logrus.Level { return h.levels }

func (h *fileHook) Fire(e *logrus.Entry) error {
	line, err := h.formatter.Format(e)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.w.Write(line)
	return err
}

// webhookHook forwards entries to Discord. Errors and criticals go to the
// error webhook, everything else to the logs webhook.
type webhookHook struct {
	errorURL string
	logsURL  string
	client   *http.Client
}

func newWebhookHook(errorURL, logsURL string) *webhookHook {
	return &webhookHook{
		errorURL: errorURL,
		logsURL:  logsURL,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (h *webhookHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *webhookHook) Fire(e *logrus.Entry) error {
	level := entryLevel(e)

	url := h.logsURL
	if level <= LevelError {
		url = h.errorURL
	}
	if url == "" {
		return nil
	}

	payload := map[string]any{
		"embeds": []any{map[string]any{
			"title":       fmt.Sprintf("[%s] %s", level.String(), entryPrefix(e)),
			"description": fmt.Sprintf("```%s```", e.Message),
			"color":       level.DiscordColor(),
			"timestamp":   e.Time.Format(time.RFC3339),
			"footer": map[string]string{
				"text": "💫 Developed by PancyStudio | PancyMod Go",
			},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	go func() {
		resp, err := h.client.Post(url, "application/json", bytes.NewReader(body))
		if err != nil {
			return
		}
		resp.Body.Close()
	}()
	return nil
}
