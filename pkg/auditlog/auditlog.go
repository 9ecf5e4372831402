package auditlog

import (
	"log"

	"prodtrack/pkg/models"
)

type LogStore interface {
	PersistLog(auditlog models.AuditLog, auditLogData interface{}) error
}

type Auditlog struct {
	store LogStore
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

func NewAuditLog(store LogStore) *Auditlog {
	return &Auditlog{store: store}
}

func (a *Auditlog) Log(action string, userID *int, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action
	auditLog.UserID = userID

	err := a.store.PersistLog(auditLog, data)

	if err != nil {
		log.Println("Unable to create AuditLog entry for id ", auditLog.ResourceID)
		return
	}
}
