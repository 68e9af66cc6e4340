package service

import (
	"context"
	"errors"

	"github.com/lithammer/shortuuid/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/symposium-service/internal/auth"
	"github.com/spec-kit/symposium-service/internal/cache"
	"github.com/spec-kit/symposium-service/internal/domain"
	"github.com/spec-kit/symposium-service/internal/events"
	"github.com/spec-kit/symposium-service/internal/repository"
	apperrors "github.com/spec-kit/symposium-service/pkg/util/errorutil"
)

const maxCodeAttempts = 3

// CertificateService issues and verifies attendance certificates.
type CertificateService struct {
	store   repository.Store
	cache   *cache.CacheHelper
	logger  *zap.Logger
	events  publisher
	now     Clock
	newCode func() string
}

// CertificateDependencies bundles collaborators for the certificate service.
type CertificateDependencies struct {
	Store      repository.Store
	Cache      *cache.CacheHelper
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      Clock
}

// NewCertificateService constructs the service.
func NewCertificateService(deps CertificateDependencies) *CertificateService {
	logger := loggerOrNop(deps.Logger)
	c := deps.Cache
	if c == nil {
		c = cache.NewCacheHelper(nil, "", 0, logger)
	}
	return &CertificateService{
		store:   deps.Store,
		cache:   c,
		logger:  logger,
		events:  publisher{dispatcher: deps.Dispatcher, logger: logger},
		now:     clockOrDefault(deps.Clock),
		newCode: shortuuid.New,
	}
}

// Issue creates a certificate for a participant of a finished symposium
// owned by actor.
func (s *CertificateService) Issue(ctx context.Context, actor domain.AuthContext, symposiumID, userID string) (*domain.Certificate, error) {
	if err := auth.Authorize(actor, domain.RoleOrganizer); err != nil {
		return nil, err
	}
	sym, err := s.store.Symposiums().GetByID(ctx, symposiumID)
	if err != nil {
		return nil, notFoundOr(err, "symposium")
	}
	if err := auth.AuthorizeOwner(actor, sym); err != nil {
		return nil, err
	}
	now := s.now()
	if !sym.EndedBefore(now) {
		return nil, apperrors.NewValidationError("certificates can only be issued after the symposium has ended", nil)
	}
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, "user")
	}
	member, err := s.store.Participants().IsSymposiumParticipant(ctx, userID, symposiumID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, apperrors.NewNotEligible("user is not a participant of this symposium")
	}
	if issued, err := s.alreadyIssued(ctx, userID, symposiumID); err != nil {
		return nil, err
	} else if issued {
		return nil, certificateExists()
	}

	cert := &domain.Certificate{UserID: userID, SymposiumID: symposiumID, IssuedAt: now}
	for attempt := 1; ; attempt++ {
		cert.ID = ""
		cert.Code = s.newCode()
		err = s.store.Certificates().Create(ctx, cert)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrConflict) {
			return nil, err
		}
		issued, lookupErr := s.alreadyIssued(ctx, userID, symposiumID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if issued {
			return nil, certificateExists()
		}
		if attempt == maxCodeAttempts {
			return nil, apperrors.NewInternalError(err)
		}
	}

	s.logger.Info("certificate issued",
		zap.String("certificate_id", cert.ID),
		zap.String("user_id", userID),
		zap.String("symposium_id", symposiumID))
	s.events.publish(ctx, events.EventCertificateIssued, cert.ID, actor, events.CertificateIssuedPayload{
		CertificateID: cert.ID,
		UserID:        userID,
		SymposiumID:   symposiumID,
		Code:          cert.Code,
	})
	return cert, nil
}

// Get returns a certificate visible to its holder and the symposium owner.
func (s *CertificateService) Get(ctx context.Context, actor domain.AuthContext, id string) (*domain.Certificate, error) {
	if err := auth.Authorize(actor); err != nil {
		return nil, err
	}
	cert, err := s.store.Certificates().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "certificate")
	}
	if cert.UserID == actor.UserID {
		return cert, nil
	}
	sym, err := s.store.Symposiums().GetByID(ctx, cert.SymposiumID)
	if err != nil {
		return nil, notFoundOr(err, "symposium")
	}
	if err := auth.AuthorizeOwner(actor, sym); err != nil {
		return nil, err
	}
	return cert, nil
}

// ListMine returns the certificates held by actor.
func (s *CertificateService) ListMine(ctx context.Context, actor domain.AuthContext) ([]domain.Certificate, error) {
	if err := auth.Authorize(actor); err != nil {
		return nil, err
	}
	return s.store.Certificates().ListByUser(ctx, actor.UserID)
}

// Validate resolves a public certificate code.
func (s *CertificateService) Validate(ctx context.Context, code string) (*domain.CertificateValidation, error) {
	result, err := cache.Remember(ctx, s.cache, cache.KeyCertificateCode(code), func(ctx context.Context) (*domain.CertificateValidation, error) {
		cert, err := s.store.Certificates().GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		holder, err := s.store.Users().GetByID(ctx, cert.UserID)
		if err != nil {
			return nil, err
		}
		sym, err := s.store.Symposiums().GetByID(ctx, cert.SymposiumID)
		if err != nil {
			return nil, err
		}
		return &domain.CertificateValidation{
			Certificate:     *cert,
			ParticipantName: holder.Name,
			SymposiumName:   sym.Name,
		}, nil
	})
	if err != nil {
		return nil, notFoundOr(err, "certificate")
	}
	return result, nil
}

func (s *CertificateService) alreadyIssued(ctx context.Context, userID, symposiumID string) (bool, error) {
	certs, err := s.store.Certificates().ListByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for i := range certs {
		if certs[i].SymposiumID == symposiumID {
			return true, nil
		}
	}
	return false, nil
}

func certificateExists() error {
	return apperrors.NewConflict("a certificate was already issued for this user and symposium")
}
