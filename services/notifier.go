package services

import (
	"fmt"
	"html/template"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"journal-submission-api/config"
	"journal-submission-api/models"
)

// Event is the structured notification emitted by workflow services for every
// lifecycle transition.
type Event struct {
	UserID       uint
	Type         string
	Title        string
	Message      string
	Link         string
	SubmissionID uint
}

// Notifier persists in-app notifications and attempts email delivery.
// Delivery failure never fails the originating domain operation: it is logged
// and swallowed, and duplicates are acceptable.
type Notifier struct {
	db       *gorm.DB
	sendMail func(to []string, subject, html string) error
}

func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{db: db, sendMail: config.SendMail}
}

// Notify writes the in-app row and fires a best-effort email.
func (n *Notifier) Notify(ev Event) {
	row := models.Notification{
		UserID:   ev.UserID,
		Type:     ev.Type,
		Title:    ev.Title,
		Message:  ev.Message,
		IsRead:   false,
		CreateAt: time.Now(),
	}
	if ev.Link != "" {
		link := ev.Link
		row.Link = &link
	}
	if ev.SubmissionID != 0 {
		id := ev.SubmissionID
		row.RelatedSubmissionID = &id
	}
	if err := n.db.Create(&row).Error; err != nil {
		log.Printf("notification insert failed (type=%s user=%d): %v", ev.Type, ev.UserID, err)
		return
	}

	var user models.User
	if err := n.db.Select("user_id", "email", "full_name").
		Where("user_id = ? AND delete_at IS NULL", ev.UserID).
		First(&user).Error; err != nil {
		log.Printf("notification email skipped, user %d not found: %v", ev.UserID, err)
		return
	}
	if user.Email == "" {
		return
	}

	html := buildNotificationHTML(user.FullName, ev)
	if err := n.sendMail([]string{user.Email}, ev.Title, html); err != nil {
		log.Printf("notification email send failed (subject=%q to=%s): %v", ev.Title, user.Email, err)
	}
}

// NotifyEditors fans the event out to every user holding the editor role.
func (n *Notifier) NotifyEditors(ev Event) {
	ids, err := editorIDs(n.db)
	if err != nil {
		log.Printf("editor fan-out failed (type=%s): %v", ev.Type, err)
		return
	}
	for _, id := range ids {
		e := ev
		e.UserID = id
		n.Notify(e)
	}
}

func editorIDs(db *gorm.DB) ([]uint, error) {
	var ids []uint
	err := db.Table("users").
		Joins("JOIN user_roles ur ON ur.user_id = users.user_id").
		Joins("JOIN roles r ON r.role_id = ur.role_id").
		Where("r.name = ? AND users.delete_at IS NULL", models.RoleEditor).
		Pluck("users.user_id", &ids).Error
	return ids, err
}

func appBaseURL() string {
	base := strings.TrimRight(os.Getenv("APP_BASE_URL"), "/")
	if base == "" {
		base = "http://localhost:3000"
	}
	return base
}

func buildNotificationHTML(recipientName string, ev Event) string {
	name := strings.TrimSpace(recipientName)
	if name == "" {
		name = "there"
	}
	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;">`)
	fmt.Fprintf(&b, `<p>Dear %s,</p>`, template.HTMLEscapeString(name))
	fmt.Fprintf(&b, `<p>%s</p>`, template.HTMLEscapeString(ev.Message))
	if ev.Link != "" {
		fmt.Fprintf(&b, `<p><a href="%s%s">View in the journal system</a></p>`,
			appBaseURL(), template.HTMLEscapeString(ev.Link))
	}
	b.WriteString(`<p>This is an automated message; please do not reply.</p></div>`)
	return b.String()
}
