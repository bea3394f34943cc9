package graph

import (
	"context"
	"fmt"

	msgraphcore "github.com/microsoftgraph/msgraph-sdk-go-core"
	"github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/microsoftgraph/msgraph-sdk-go/users"

	"github.com/m365ops/contactsync/internal/utils/ptr"
	"github.com/m365ops/contactsync/pkg/contacts"
	"github.com/m365ops/contactsync/pkg/errors"
	"github.com/m365ops/contactsync/pkg/logging"
)

// ContactStore reads and writes the personal contacts of a mailbox.
type ContactStore struct {
	client *Client
}

// List returns every contact in the default contact folder of mailbox.
func (s *ContactStore) List(ctx context.Context, mailbox string) ([]contacts.MailboxContact, error) {
	endpoint := fmt.Sprintf("GET /users/%s/contacts", mailbox)

	top := s.client.pageSize
	var resp models.ContactCollectionResponseable
	err := s.client.call(ctx, endpoint, func(ctx context.Context) error {
		var err error
		resp, err = s.client.graph.Users().ByUserId(mailbox).Contacts().Get(ctx, &users.ItemContactsRequestBuilderGetRequestConfiguration{
			QueryParameters: &users.ItemContactsRequestBuilderGetQueryParameters{
				Select: contactSelect,
				Top:    &top,
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	iter, err := msgraphcore.NewPageIterator[models.Contactable](resp, s.client.graph.GetAdapter(), models.CreateContactCollectionResponseFromDiscriminatorValue)
	if err != nil {
		return nil, transformError(err, endpoint)
	}

	var existing []contacts.MailboxContact
	err = iter.Iterate(ctx, func(c models.Contactable) bool {
		if c != nil {
			existing = append(existing, MailboxContactFromContact(c))
		}
		return true
	})
	if err != nil {
		return nil, transformError(err, endpoint)
	}

	logging.FromContext(ctx).Debug().
		Str("mailbox", mailbox).
		Int("count", len(existing)).
		Msg("Listed mailbox contacts")

	return existing, nil
}

// Create adds a contact and returns its id.
func (s *ContactStore) Create(ctx context.Context, mailbox string, body contacts.Body) (string, error) {
	endpoint := fmt.Sprintf("POST /users/%s/contacts", mailbox)

	var created models.Contactable
	err := s.client.call(ctx, endpoint, func(ctx context.Context) error {
		var err error
		created, err = s.client.graph.Users().ByUserId(mailbox).Contacts().Post(ctx, ContactFromBody(body), nil)
		return err
	})
	if err != nil {
		return "", err
	}
	if created == nil || ptr.Deref(created.GetId()) == "" {
		return "", errors.NewAPIError(ServiceName, 0, "create returned no contact id")
	}
	return ptr.Deref(created.GetId()), nil
}

// Update patches the fields present in patch.
func (s *ContactStore) Update(ctx context.Context, mailbox, id string, patch contacts.Body) error {
	if patch.IsEmpty() {
		return nil
	}
	endpoint := fmt.Sprintf("PATCH /users/%s/contacts/%s", mailbox, id)

	return s.client.call(ctx, endpoint, func(ctx context.Context) error {
		_, err := s.client.graph.Users().ByUserId(mailbox).Contacts().ByContactId(id).Patch(ctx, ContactFromBody(patch), nil)
		return err
	})
}

// Delete removes a contact.
func (s *ContactStore) Delete(ctx context.Context, mailbox, id string) error {
	endpoint := fmt.Sprintf("DELETE /users/%s/contacts/%s", mailbox, id)

	return s.client.call(ctx, endpoint, func(ctx context.Context) error {
		return s.client.graph.Users().ByUserId(mailbox).Contacts().ByContactId(id).Delete(ctx, nil)
	})
}

// SendMail sends a plain-text message from sender's mailbox.
func (c *Client) SendMail(ctx context.Context, sender string, to []string, subject, text string) error {
	endpoint := fmt.Sprintf("POST /users/%s/sendMail", sender)

	message := models.NewMessage()
	message.SetSubject(ptr.To(subject))

	body := models.NewItemBody()
	body.SetContent(ptr.To(text))
	contentType := models.TEXT_BODYTYPE
	body.SetContentType(&contentType)
	message.SetBody(body)

	recipients := make([]models.Recipientable, 0, len(to))
	for _, addr := range to {
		email := models.NewEmailAddress()
		email.SetAddress(ptr.To(addr))
		recipient := models.NewRecipient()
		recipient.SetEmailAddress(email)
		recipients = append(recipients, recipient)
	}
	message.SetToRecipients(recipients)

	request := users.NewItemSendMailPostRequestBody()
	request.SetMessage(message)
	request.SetSaveToSentItems(ptr.To(false))

	return c.call(ctx, endpoint, func(ctx context.Context) error {
		return c.graph.Users().ByUserId(sender).SendMail().Post(ctx, request, nil)
	})
}
