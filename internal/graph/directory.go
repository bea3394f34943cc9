package graph

import (
	"context"

	msgraphcore "github.com/microsoftgraph/msgraph-sdk-go-core"
	orgcontacts "github.com/microsoftgraph/msgraph-sdk-go/contacts"
	"github.com/microsoftgraph/msgraph-sdk-go/models"

	"github.com/m365ops/contactsync/pkg/contacts"
	"github.com/m365ops/contactsync/pkg/logging"
)

// DirectorySource lists the organization contacts of the tenant.
type DirectorySource struct {
	client *Client
}

// List returns every orgContact in the tenant, following @odata.nextLink.
func (d *DirectorySource) List(ctx context.Context) ([]contacts.DirectoryRecord, error) {
	const endpoint = "GET /contacts"

	top := d.client.pageSize
	var resp models.OrgContactCollectionResponseable
	err := d.client.call(ctx, endpoint, func(ctx context.Context) error {
		var err error
		resp, err = d.client.graph.Contacts().Get(ctx, &orgcontacts.ContactsRequestBuilderGetRequestConfiguration{
			QueryParameters: &orgcontacts.ContactsRequestBuilderGetQueryParameters{
				Select: orgContactSelect,
				Top:    &top,
			},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	iter, err := msgraphcore.NewPageIterator[models.OrgContactable](resp, d.client.graph.GetAdapter(), models.CreateOrgContactCollectionResponseFromDiscriminatorValue)
	if err != nil {
		return nil, transformError(err, endpoint)
	}

	var records []contacts.DirectoryRecord
	err = iter.Iterate(ctx, func(oc models.OrgContactable) bool {
		if oc != nil {
			records = append(records, DirectoryRecordFromOrgContact(oc))
		}
		return true
	})
	if err != nil {
		return nil, transformError(err, endpoint)
	}

	logging.FromContext(ctx).Debug().
		Int("count", len(records)).
		Msg("Listed directory contacts")

	return records, nil
}
