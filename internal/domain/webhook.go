package domain

import (
	"context"
	"strings"

	"github.com/echo-threads/backend/internal/model"
	"github.com/echo-threads/backend/pkg/errorx"
	"github.com/echo-threads/backend/pkg/xcontext"
	"github.com/mitchellh/mapstructure"
)

// Event types delivered by the identity provider.
const (
	UserCreatedEvent                   = "user.created"
	UserUpdatedEvent                   = "user.updated"
	OrganizationCreatedEvent           = "organization.created"
	OrganizationUpdatedEvent           = "organization.updated"
	OrganizationDeletedEvent           = "organization.deleted"
	OrganizationMembershipCreatedEvent = "organizationMembership.created"
	OrganizationMembershipDeletedEvent = "organizationMembership.deleted"
)

type webhookUser struct {
	ID        string `mapstructure:"id"`
	Username  string `mapstructure:"username"`
	FirstName string `mapstructure:"first_name"`
	LastName  string `mapstructure:"last_name"`
	ImageURL  string `mapstructure:"image_url"`
}

type webhookOrganization struct {
	ID        string `mapstructure:"id"`
	Name      string `mapstructure:"name"`
	Slug      string `mapstructure:"slug"`
	ImageURL  string `mapstructure:"image_url"`
	LogoURL   string `mapstructure:"logo_url"`
	CreatedBy string `mapstructure:"created_by"`
}

func (o webhookOrganization) image() string {
	if o.ImageURL != "" {
		return o.ImageURL
	}
	return o.LogoURL
}

type webhookMembership struct {
	Organization struct {
		ID string `mapstructure:"id"`
	} `mapstructure:"organization"`
	PublicUserData struct {
		UserID string `mapstructure:"user_id"`
	} `mapstructure:"public_user_data"`
}

type WebhookDomain interface {
	Identity(context.Context, *model.IdentityWebhookRequest) (*model.IdentityWebhookResponse, error)
}

type webhookDomain struct {
	userDomain      UserDomain
	communityDomain CommunityDomain
}

func NewWebhookDomain(userDomain UserDomain, communityDomain CommunityDomain) WebhookDomain {
	return &webhookDomain{userDomain: userDomain, communityDomain: communityDomain}
}

func decodeWebhookData(ctx context.Context, data map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create webhook decoder: %v", err)
		return errorx.Unknown
	}

	if err := decoder.Decode(data); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot decode webhook data: %v", err)
		return errorx.New(errorx.BadRequest, "Invalid webhook data")
	}

	return nil
}

// Identity applies a user or organization event of the identity provider to
// the stored users and communities.
func (d *webhookDomain) Identity(
	ctx context.Context, req *model.IdentityWebhookRequest,
) (*model.IdentityWebhookResponse, error) {
	switch req.Type {
	case UserCreatedEvent, UserUpdatedEvent:
		var user webhookUser
		if err := decodeWebhookData(ctx, req.Data, &user); err != nil {
			return nil, err
		}

		_, err := d.userDomain.Sync(ctx, &model.SyncUserRequest{
			ExternalID: user.ID,
			Name:       strings.TrimSpace(user.FirstName + " " + user.LastName),
			Username:   user.Username,
			Image:      user.ImageURL,
		})
		if err != nil {
			return nil, err
		}

	case OrganizationCreatedEvent:
		var org webhookOrganization
		if err := decodeWebhookData(ctx, req.Data, &org); err != nil {
			return nil, err
		}

		_, err := d.communityDomain.Create(ctx, &model.CreateCommunityRequest{
			ID:          org.ID,
			Name:        org.Name,
			Username:    org.Slug,
			Image:       org.image(),
			CreatedByID: org.CreatedBy,
		})
		if err != nil {
			return nil, err
		}

	case OrganizationUpdatedEvent:
		var org webhookOrganization
		if err := decodeWebhookData(ctx, req.Data, &org); err != nil {
			return nil, err
		}

		_, err := d.communityDomain.UpdateInfo(ctx, &model.UpdateCommunityRequest{
			CommunityID: org.ID,
			Name:        org.Name,
			Username:    org.Slug,
			Image:       org.image(),
		})
		if err != nil {
			return nil, err
		}

	case OrganizationDeletedEvent:
		var org webhookOrganization
		if err := decodeWebhookData(ctx, req.Data, &org); err != nil {
			return nil, err
		}

		if _, err := d.communityDomain.Delete(ctx, &model.DeleteCommunityRequest{CommunityID: org.ID}); err != nil {
			return nil, err
		}

	case OrganizationMembershipCreatedEvent:
		var membership webhookMembership
		if err := decodeWebhookData(ctx, req.Data, &membership); err != nil {
			return nil, err
		}

		_, err := d.communityDomain.AddMember(ctx, &model.AddMemberRequest{
			CommunityID: membership.Organization.ID,
			UserID:      membership.PublicUserData.UserID,
		})
		if err != nil {
			return nil, err
		}

	case OrganizationMembershipDeletedEvent:
		var membership webhookMembership
		if err := decodeWebhookData(ctx, req.Data, &membership); err != nil {
			return nil, err
		}

		_, err := d.communityDomain.RemoveMember(ctx, &model.RemoveMemberRequest{
			UserID:      membership.PublicUserData.UserID,
			CommunityID: membership.Organization.ID,
		})
		if err != nil {
			return nil, err
		}

	default:
		xcontext.Logger(ctx).Debugf("Ignore webhook event %s", req.Type)
		return &model.IdentityWebhookResponse{Message: "Ignored"}, nil
	}

	return &model.IdentityWebhookResponse{Message: "Success"}, nil
}
