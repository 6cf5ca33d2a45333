package log

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Fields é um alias para logrus.Fields
type Fields logrus.Fields

// Logger é o subconjunto de logrus usado pela API
type Logger interface {
	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger
	WithError(err error) Logger

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

type contextKey string

const correlationIDKey contextKey = "correlation_id"

const CorrelationIDField = "correlation_id"

// CorrelationIDHeader é o cabeçalho aceito e devolvido com o id de correlação HTTP
const CorrelationIDHeader = "X-Request-ID"

const maxCorrelationIDLength = 64

var developmentFields = map[string]bool{
	CorrelationIDField: true,
	"request_id":       true,
	"run_id":           true,
	"method":           true,
	"path":             true,
	"status_code":      true,
	"duration_ms":      true,
	"error":            true,
	"year":             true,
	"unit":             true,
}

// isRelevantField inclui também os campos de dentista (dentist_id, dentist_cro...)
func isRelevantField(key string) bool {
	return developmentFields[key] || strings.HasPrefix(key, "dentist_")
}

type logger struct {
	entry *logrus.Entry
}

// L é a instância global usada pelos middlewares e handlers
var L Logger = &logger{entry: logrus.NewEntry(logrus.StandardLogger())}

// IsDevelopment retorna verdadeiro se estamos em ambiente de desenvolvimento
func IsDevelopment() bool {
	env := os.Getenv("APP_ENV")
	return env == "" || env == "development" || env == "dev"
}

// Configure define formato e nível do logrus global.
// Em produção os logs saem em JSON para ingestão; em desenvolvimento em texto.
func Configure(level string) logrus.Level {
	if IsDevelopment() {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", level)
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	L = &logger{entry: logrus.NewEntry(logrus.StandardLogger())}
	return parsed
}

func (l *logger) WithField(key string, value interface{}) Logger {
	// Em desenvolvimento mantemos apenas os campos úteis para depuração
	if IsDevelopment() && !isRelevantField(key) {
		return l
	}
	return &logger{entry: l.entry.WithField(key, value)}
}

func (l *logger) WithFields(fields Fields) Logger {
	if !IsDevelopment() {
		return &logger{entry: l.entry.WithFields(logrus.Fields(fields))}
	}

	relevant := make(logrus.Fields)
	for k, v := range fields {
		if isRelevantField(k) {
			relevant[k] = v
		}
	}
	if len(relevant) == 0 {
		return l
	}
	return &logger{entry: l.entry.WithFields(relevant)}
}

func (l *logger) WithError(err error) Logger {
	return &logger{entry: l.entry.WithError(err)}
}

func (l *logger) Debug(args ...interface{})                 { l.entry.Debug(args...) }
func (l *logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logger) Info(args ...interface{})                  { l.entry.Info(args...) }
func (l *logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logger) Warn(args ...interface{})                  { l.entry.Warn(args...) }
func (l *logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *logger) Error(args ...interface{})                 { l.entry.Error(args...) }
func (l *logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// WithCorrelationID guarda o id de correlação no contexto.
// Um id vazio, longo demais ou com espaços é substituído por um uuid novo.
func WithCorrelationID(ctx context.Context, incoming string) (context.Context, string) {
	id := strings.TrimSpace(incoming)
	if id == "" || len(id) > maxCorrelationIDLength || strings.ContainsAny(id, " \t\r\n") {
		id = uuid.New().String()
	}
	return context.WithValue(ctx, correlationIDKey, id), id
}

// GetCorrelationID obtém o id de correlação do contexto
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// ForContext cria um logger com o id de correlação do contexto
func ForContext(ctx context.Context) Logger {
	if id := GetCorrelationID(ctx); id != "" {
		return L.WithField(CorrelationIDField, id)
	}
	return L
}
