package audit

import (
	"encoding/json"

	"anoa.com/wismacare/internal/entity"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Logger is the free-form log collaborator. Log is one-way: it never blocks
// and never fails the caller, whatever happens to the store underneath.
type Logger interface {
	Log(level, message string, meta map[string]interface{})
}

const (
	LevelInfo = "INFO"
	LevelWarn = "WARN"
)

type service struct {
	db      *gorm.DB
	log     *zap.Logger
	entries chan entity.AuditEntry
	done    chan struct{}
}

// NewService starts the background writer. Entries queue on a buffered
// channel; when the buffer is full new entries are dropped rather than
// blocking the operation that produced them.
func NewService(db *gorm.DB, log *zap.Logger) Logger {
	s := &service{
		db:      db,
		log:     log,
		entries: make(chan entity.AuditEntry, 256),
		done:    make(chan struct{}),
	}
	go s.writeLoop()
	return s
}

func (s *service) Log(level, message string, meta map[string]interface{}) {
	entry := entity.AuditEntry{Level: level, Message: message}

	if len(meta) > 0 {
		if payload, err := json.Marshal(meta); err == nil {
			metaStr := string(payload)
			entry.Meta = &metaStr
		}
	}

	select {
	case s.entries <- entry:
	default:
		s.log.Warn("audit buffer full, dropping entry", zap.String("message", message))
	}
}

func (s *service) writeLoop() {
	defer close(s.done)
	for entry := range s.entries {
		if err := s.db.Create(&entry).Error; err != nil {
			s.log.Warn("audit write failed", zap.Error(err))
		}
	}
}

// Close stops the writer after draining queued entries. Only used by tests
// and shutdown paths.
func (s *service) Close() {
	close(s.entries)
	<-s.done
}
