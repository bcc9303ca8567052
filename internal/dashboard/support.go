package dashboard

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"storefront-web/internal/domain"
)

const msgTicketSubmitted = "Ticket submitted successfully! We will contact you shortly."

// SupportSubjects are the options of the ticket subject selector.
var SupportSubjects = []string{
	"Order Issue",
	"Product Inquiry",
	"Payment Issue",
	"Returns & Refunds",
	"Other",
}

// DefaultSupportSubject is preselected on a fresh form.
const DefaultSupportSubject = "Order Issue"

// FAQ is one question on the support panel.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

var faqs = []FAQ{
	{
		Question: "How do I track my order?",
		Answer:   `You can track your order in the "Orders" section of your dashboard. Click on "View Details" to see the current status.`,
	},
	{
		Question: "What is the return policy?",
		Answer:   "We accept returns within 7 days of delivery. Items must be unused and in original packaging.",
	},
}

// SupportView is what the support panel renders.
type SupportView struct {
	Subjects []string                  `json:"subjects"`
	Draft    domain.SupportTicketDraft `json:"draft"`
	FAQs     []FAQ                     `json:"faqs"`
	Message  Message                   `json:"message"`
}

type supportState struct {
	draft   domain.SupportTicketDraft
	message Message
	// generation guards the dismiss timer against a newer submission.
	generation uint64
}

func newSupportState() supportState {
	return supportState{draft: domain.SupportTicketDraft{Subject: DefaultSupportSubject}}
}

func (s supportState) view() SupportView {
	return SupportView{
		Subjects: slices.Clone(SupportSubjects),
		Draft:    s.draft,
		FAQs:     slices.Clone(faqs),
		Message:  s.message,
	}
}

// SubmitTicket accepts a support ticket locally. Nothing is sent anywhere;
// the form resets and a confirmation shows for the dismiss delay.
func (d *Dashboard) SubmitTicket(draft domain.SupportTicketDraft) error {
	draft.Subject = strings.TrimSpace(draft.Subject)
	draft.Message = strings.TrimSpace(draft.Message)
	if draft.Subject == "" {
		draft.Subject = DefaultSupportSubject
	}

	err := domain.Validate(draft)
	if err == nil && !slices.Contains(SupportSubjects, draft.Subject) {
		err = &domain.ValidationError{Fields: []domain.FieldError{{Field: "subject", Message: "subject is invalid"}}}
	}

	d.mu.Lock()
	if err != nil {
		d.support.draft = draft
		d.support.message = errorMessage(err, "")
		d.mu.Unlock()
		return err
	}

	d.logger.Info("support ticket accepted",
		zap.String("subject", draft.Subject),
		zap.Int("message_len", len(draft.Message)),
	)
	d.support.draft = domain.SupportTicketDraft{Subject: DefaultSupportSubject}
	d.support.message = successMessage(msgTicketSubmitted)
	d.support.generation++
	gen := d.support.generation
	d.mu.Unlock()

	d.opts.AfterFunc(d.opts.SupportDismissAfter, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.support.generation == gen {
			d.support.message = Message{}
		}
	})
	return nil
}
