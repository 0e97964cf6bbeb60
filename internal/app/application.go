// Package app wires storage and domain services into one application.
package app

import (
	"context"
	"time"

	authsvc "github.com/resolvedesk/resolvedesk/internal/app/services/auth"
	complaintsvc "github.com/resolvedesk/resolvedesk/internal/app/services/complaints"
	departmentsvc "github.com/resolvedesk/resolvedesk/internal/app/services/departments"
	feedbacksvc "github.com/resolvedesk/resolvedesk/internal/app/services/feedback"
	notificationsvc "github.com/resolvedesk/resolvedesk/internal/app/services/notifications"
	organizationsvc "github.com/resolvedesk/resolvedesk/internal/app/services/organizations"
	usersvc "github.com/resolvedesk/resolvedesk/internal/app/services/users"
	workflowsvc "github.com/resolvedesk/resolvedesk/internal/app/services/workflows"
	"github.com/resolvedesk/resolvedesk/internal/app/storage"
	"github.com/resolvedesk/resolvedesk/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to the
// in-memory implementation.
type Stores struct {
	Organizations  storage.OrganizationStore
	Departments    storage.DepartmentStore
	Users          storage.UserStore
	ComplaintTypes storage.ComplaintTypeStore
	Complaints     storage.ComplaintStore
	Workflows      storage.WorkflowStore
	Notifications  storage.NotificationStore
	Feedback       storage.FeedbackStore
	Sessions       storage.SessionStore
}

// Options configures application construction.
type Options struct {
	JWTSecret []byte
	TokenTTL  time.Duration
	// UploadsDir is where complaint attachments are written.
	UploadsDir string
	// EscalationSchedule is the cron expression for the overdue sweep.
	// Empty uses the default.
	EscalationSchedule string
}

// Application ties domain services together and manages their lifecycle.
type Application struct {
	log       *logger.Logger
	escalator *workflowsvc.Escalator

	Organizations *organizationsvc.Service
	Departments   *departmentsvc.Service
	Users         *usersvc.Service
	Auth          *authsvc.Service
	Complaints    *complaintsvc.Service
	Workflows     *workflowsvc.Service
	Notifications *notificationsvc.Service
	Feedback      *feedbacksvc.Service
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, opts Options, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := storage.NewMemory()
	if stores.Organizations == nil {
		stores.Organizations = mem
	}
	if stores.Departments == nil {
		stores.Departments = mem
	}
	if stores.Users == nil {
		stores.Users = mem
	}
	if stores.ComplaintTypes == nil {
		stores.ComplaintTypes = mem
	}
	if stores.Complaints == nil {
		stores.Complaints = mem
	}
	if stores.Workflows == nil {
		stores.Workflows = mem
	}
	if stores.Notifications == nil {
		stores.Notifications = mem
	}
	if stores.Feedback == nil {
		stores.Feedback = mem
	}
	if stores.Sessions == nil {
		stores.Sessions = mem
	}

	hub := notificationsvc.NewHub(log)
	notificationService := notificationsvc.New(stores.Notifications, hub, log)

	organizationService := organizationsvc.New(stores.Organizations, log)
	departmentService := departmentsvc.New(stores.Organizations, stores.Departments, log)
	userService := usersvc.New(stores.Users, log)
	authService := authsvc.New(stores.Users, stores.Sessions, opts.JWTSecret, opts.TokenTTL, log)
	complaintService := complaintsvc.New(stores.Complaints, stores.ComplaintTypes, notificationService, opts.UploadsDir, log)
	workflowService := workflowsvc.New(stores.Workflows, stores.Complaints, notificationService, log)
	feedbackService := feedbacksvc.New(stores.Feedback, stores.Complaints, log)

	return &Application{
		log:           log,
		escalator:     workflowsvc.NewEscalator(workflowService, opts.EscalationSchedule, log),
		Organizations: organizationService,
		Departments:   departmentService,
		Users:         userService,
		Auth:          authService,
		Complaints:    complaintService,
		Workflows:     workflowService,
		Notifications: notificationService,
		Feedback:      feedbackService,
	}, nil
}

// Start begins background work: the workflow escalation sweep and the
// periodic expired-session purge.
func (a *Application) Start(ctx context.Context) error {
	if err := a.escalator.Start(); err != nil {
		return err
	}

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := a.Auth.PurgeExpiredSessions(ctx); err != nil {
					a.log.WithError(err).Warn("session purge failed")
				}
			}
		}
	}()
	return nil
}

// Stop halts background work.
func (a *Application) Stop(ctx context.Context) error {
	a.escalator.Stop()
	return nil
}
