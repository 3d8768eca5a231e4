package observe

import (
	"encoding/json"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"

	"mosmix-api/pkg/logger"
)

const (
	_sentryMaxErrorDepth        int           = 9
	_sentryFlushTimeout         time.Duration = 5 * time.Second
	_sentryServerRequestTimeout time.Duration = 5 * time.Second

	_timestampLayout = "2006-01-02T15-04-05.000"
)

// reportedZones are the app environments whose errors reach Sentry.
var reportedZones = map[string]bool{"prod": true, "dev": true}

// SentryHook is an io.Writer for the zap logger that forwards error level
// entries to Sentry.
type SentryHook struct {
	appZone string
	appName string
	l       *logger.Logger
	capture func(*sentry.Event)
}

func NewSentryHook(appZone, appName string, isDebug bool, dsn string) *SentryHook {
	if dsn == "" {
		log.Println("Stacktracer init error: no DSN")
	}
	sentryTransport := sentry.NewHTTPTransport()
	sentryTransport.Timeout = _sentryServerRequestTimeout
	if err := sentry.Init(
		sentry.ClientOptions{
			AttachStacktrace: true,
			Debug:            isDebug,
			Dsn:              dsn,
			Environment:      appZone,
			MaxErrorDepth:    _sentryMaxErrorDepth,
			ServerName:       appName,
			Transport:        sentryTransport,
		}); err != nil {
		log.Println("Stacktracer init error: ", err.Error())
	} else {
		log.Println("Stacktracer init success")
	}

	return newSentryHook(appZone, appName, func(e *sentry.Event) { sentry.CaptureEvent(e) })
}

func newSentryHook(appZone, appName string, capture func(*sentry.Event)) *SentryHook {
	return &SentryHook{
		appZone: appZone,
		appName: appName,
		capture: capture,
	}
}

// Flush waits for buffered events to be delivered.
func (h *SentryHook) Flush() bool {
	return sentry.Flush(_sentryFlushTimeout)
}

func (*SentryHook) mapLevel(zl zapcore.Level) sentry.Level {
	switch zl {
	case zapcore.DebugLevel, zapcore.InvalidLevel:
		return sentry.LevelDebug
	case zapcore.InfoLevel:
		return sentry.LevelInfo
	case zapcore.WarnLevel:
		return sentry.LevelWarning
	case zapcore.ErrorLevel:
		return sentry.LevelError
	case zapcore.FatalLevel, zapcore.PanicLevel, zapcore.DPanicLevel:
		return sentry.LevelFatal
	}

	return sentry.LevelDebug
}

// entry is the subset of a logger line that is forwarded.
type entry struct {
	Level      string `json:"level"`
	AppName    string `json:"app_name"`
	CallerFile string `json:"caller_file"`
	CallerLine int    `json:"caller_line"`
	CallerFunc string `json:"caller_func"`
	Stack      string `json:"stack"`
	Message    string `json:"msg"`
	Error      string `json:"error"`
	Timestamp  string `json:"timestamp"`
	StationID  string `json:"station_id"`
}

func (h *SentryHook) Write(p []byte) (n int, err error) {
	if !reportedZones[h.appZone] {
		return len(p), nil
	}

	var e entry
	if err := json.Unmarshal(p, &e); err != nil {
		h.report(errors.Wrap(err, "[SentryHook] json.Unmarshal data"))
		return len(p), nil
	}

	level, err := zapcore.ParseLevel(e.Level)
	if err != nil {
		h.report(errors.Wrap(err, "[SentryHook] parse zap level"))
		return len(p), nil
	}
	if e.Message == "" || level < zapcore.ErrorLevel {
		return len(p), nil
	}

	timestamp, _ := time.ParseInLocation(_timestampLayout, e.Timestamp, time.UTC)

	event := sentry.NewEvent()
	event.Environment = h.appZone
	event.Level = h.mapLevel(level)
	event.Timestamp = timestamp
	event.Message = e.Message
	event.Extra["AppName"] = h.appName
	event.Extra["Error"] = e.Error
	event.Extra["CallerFile"] = e.CallerFile
	event.Extra["CallerLine"] = e.CallerLine
	event.Extra["CallerFunc"] = e.CallerFunc
	event.Extra["Stack"] = e.Stack
	event.Extra["TimeStamp"] = e.Timestamp
	if e.StationID != "" {
		event.Tags["station_id"] = e.StationID
	}
	event.Exception = append(event.Exception, sentry.Exception{
		Type:       e.Message,
		Value:      e.Error,
		Stacktrace: sentry.NewStacktrace(),
	})
	h.capture(event)

	return len(p), nil
}

func (h *SentryHook) report(err error) {
	if h.l != nil {
		h.l.Warning(err.Error())
		return
	}
	log.Println(err.Error())
}

func (h *SentryHook) SetLogger(l *logger.Logger) {
	if l != nil {
		h.l = l
	}
}
