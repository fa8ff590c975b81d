package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/repositories"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/utils"
)

// MatchNotification is one landlord-side alert about a new match.
type MatchNotification struct {
	OrganizationID  uuid.UUID
	RentalRequestID uuid.UUID
	Title           string
	TenantName      string
}

// Notifier dispatches bulk match notifications. Fire-and-forget:
// implementations log failures and never return them to the matching
// pipeline.
type Notifier interface {
	NotifyMany(ctx context.Context, items []MatchNotification)
}

const matchEmailHTML = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><title>New Tenant Match</title></head>
<body style="font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; color: #1f2937;">
  <div style="max-width: 600px; margin: auto; border: 1px solid #e5e7eb; border-radius: 8px;">
    <div style="background-color: #dbeafe; padding: 15px 20px;">
      <h1 style="margin: 0; font-size: 20px; color: #1e40af;">%s</h1>
    </div>
    <div style="padding: 20px;">
      <p>A tenant request matching one of your properties just entered the pool.</p>
      <ul style="list-style: none; padding: 0;">
        <li style="padding: 8px; border-bottom: 1px solid #eee;"><strong>Tenant:</strong> %s</li>
        <li style="padding: 8px;"><strong>Request:</strong> %s</li>
      </ul>
      <p>Log in to review the request and respond.</p>
    </div>
  </div>
</body>
</html>`

/*──────────── SendGrid + Twilio implementation ────────────*/

type matchNotifier struct {
	orgRepo   repositories.OrganizationRepository
	sgClient  *sendgrid.Client
	twClient  *twilio.RestClient
	fromEmail string
	fromPhone string
	orgName   string
}

func NewMatchNotifier(
	orgRepo repositories.OrganizationRepository,
	sgClient *sendgrid.Client,
	twClient *twilio.RestClient,
	fromEmail string,
	fromPhone string,
	orgName string,
) Notifier {
	return &matchNotifier{
		orgRepo:   orgRepo,
		sgClient:  sgClient,
		twClient:  twClient,
		fromEmail: fromEmail,
		fromPhone: fromPhone,
		orgName:   orgName,
	}
}

func (n *matchNotifier) NotifyMany(ctx context.Context, items []MatchNotification) {
	for _, item := range items {
		org, err := n.orgRepo.GetWithMembers(ctx, item.OrganizationID)
		if err != nil || org == nil {
			utils.Logger.WithError(err).Warnf("NotifyMany: organization %s lookup failed", item.OrganizationID)
			continue
		}

		subject := fmt.Sprintf("New tenant match: %s", item.Title)
		plainText := fmt.Sprintf(
			"%s\n\nTenant: %s\nRequest: %s\n\nLog in to review the request and respond.",
			subject, item.TenantName, item.RentalRequestID,
		)
		htmlBody := fmt.Sprintf(matchEmailHTML, subject, item.TenantName, item.Title)

		for _, member := range org.Members {
			if n.sgClient != nil && member.Email != "" {
				from := mail.NewEmail(n.orgName, n.fromEmail)
				to := mail.NewEmail(member.Name, member.Email)
				msg := mail.NewSingleEmail(from, subject, to, plainText, htmlBody)
				if _, sgErr := n.sgClient.Send(msg); sgErr != nil {
					utils.Logger.WithError(sgErr).Warnf("Match email failure for member %s", member.ID)
				}
			}
		}

		// SMS only for personal organizations, first member with a phone.
		if n.twClient != nil && org.IsPersonal {
			for _, member := range org.Members {
				if member.PhoneNumber == "" {
					continue
				}
				params := &twilioApi.CreateMessageParams{}
				params.SetTo(member.PhoneNumber)
				params.SetFrom(n.fromPhone)
				params.SetBody(subject + " :: " + plainText)
				if _, smsErr := n.twClient.Api.CreateMessage(params); smsErr != nil {
					utils.Logger.WithError(smsErr).Warnf("Match SMS failure for member %s", member.ID)
				}
				break
			}
		}
	}
}

/*──────────── no-op implementation (tests, missing creds) ────────────*/

type noopNotifier struct{}

func NewNoopNotifier() Notifier { return noopNotifier{} }

func (noopNotifier) NotifyMany(ctx context.Context, items []MatchNotification) {}
