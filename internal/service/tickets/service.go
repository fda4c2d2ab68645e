package tickets

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/cinechain/cinebook/internal/domain"
	"github.com/cinechain/cinebook/internal/repository"
	postgresrepo "github.com/cinechain/cinebook/internal/repository/postgres"
)

const qrImageSize = 256

type Service struct {
	store *postgresrepo.Store
}

func New(store *postgresrepo.Store) *Service {
	return &Service{store: store}
}

// ListMine lists the caller's tickets.
func (s *Service) ListMine(ctx context.Context, userID int64) ([]domain.TicketDetail, error) {
	const op = "service.tickets.ListMine"

	out, err := s.store.Tickets().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// QRCodePNG renders a ticket's opaque code as a PNG QR image. Visible to the
// ticket's owner and to staff.
//
// Returns:
//   - []byte: the PNG bytes.
//   - error: tickets.ErrTicketNotFound if the ticket does not exist;
//     tickets.ErrNotOwner if the actor may not see it.
func (s *Service) QRCodePNG(ctx context.Context, actor domain.Actor, ticketID uuid.UUID) ([]byte, error) {
	const op = "service.tickets.QRCodePNG"

	t, err := s.store.Tickets().GetTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTicketNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if t.UserID != actor.UserID && !actor.Role.Privileged() {
		return nil, fmt.Errorf("%s: %w", op, ErrNotOwner)
	}

	png, err := qrcode.Encode(t.QRCode, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return png, nil
}
