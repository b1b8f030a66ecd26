package notifier

import (
	"log"

	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"gorm.io/gorm"
)

// Notifier delivers a message to one user. Delivery transport is a
// collaborator of the booking workflow, never on its critical path: failures
// are logged by callers, not propagated.
type Notifier interface {
	Notify(userID uint, message string) error
}

// DBNotifier records notifications relationally so clients can poll them.
type DBNotifier struct {
	db *gorm.DB
}

func NewDBNotifier(db *gorm.DB) *DBNotifier {
	return &DBNotifier{db: db}
}

func (n *DBNotifier) Notify(userID uint, message string) error {
	return n.db.Create(&models.Notification{UserID: userID, Message: message}).Error
}

// Multi fans a notification out to several sinks; the first error wins but
// every sink is attempted.
type Multi []Notifier

func (m Multi) Notify(userID uint, message string) error {
	var first error
	for _, n := range m {
		if err := n.Notify(userID, message); err != nil {
			log.Printf("notifier: %v", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
