package service

import (
	"context"

	"github.com/maxline/ordergate/authz"
	"github.com/maxline/ordergate/errors"
	"github.com/maxline/ordergate/logging"
)

// CreateProfile authorizes and persists a user profile. The user policy ties
// the document id and email to the caller's token and rejects self-granted
// manager status, so the document is stored exactly as submitted.
func (s *Service) CreateProfile(ctx context.Context, uid string, doc map[string]interface{}) error {
	p := caller(ctx)
	logging.Track(ctx, "profile.uid", uid)

	err := s.authz.Authorize(ctx, p, authz.Request{
		Collection: authz.CollectionUsers,
		DocID:      uid,
		Operation:  authz.OpCreate,
		Proposed:   authz.Document(doc),
	})
	if err != nil {
		return err
	}
	if err := s.store.Create(ctx, authz.CollectionUsers, uid, doc); err != nil {
		return errors.WrapPrefix(err, "creating profile")
	}
	return nil
}

// GetProfile returns one user profile if the caller may read it: their own,
// or any profile for managers.
func (s *Service) GetProfile(ctx context.Context, uid string) (map[string]interface{}, error) {
	p := caller(ctx)
	existing, err := s.store.Get(ctx, authz.CollectionUsers, uid)
	if err != nil {
		return nil, errors.WrapPrefix(err, "reading profile")
	}

	err = s.authz.Authorize(ctx, p, authz.Request{
		Collection: authz.CollectionUsers,
		DocID:      uid,
		Operation:  authz.OpRead,
		Existing:   authz.Document(existing),
	})
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// UpdateProfile authorizes and applies a full overwrite of a user profile.
// Owners may edit their own mutable fields; only managers may change the
// protected ones.
func (s *Service) UpdateProfile(ctx context.Context, uid string, doc map[string]interface{}) error {
	p := caller(ctx)
	existing, err := s.store.Get(ctx, authz.CollectionUsers, uid)
	if err != nil {
		return errors.WrapPrefix(err, "reading profile")
	}

	err = s.authz.Authorize(ctx, p, authz.Request{
		Collection: authz.CollectionUsers,
		DocID:      uid,
		Operation:  authz.OpUpdate,
		Existing:   authz.Document(existing),
		Proposed:   authz.Document(doc),
	})
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, authz.CollectionUsers, uid, doc); err != nil {
		return errors.WrapPrefix(err, "updating profile")
	}
	return nil
}
