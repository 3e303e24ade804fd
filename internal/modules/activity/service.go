package activity

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/domain"
	"github.com/MHYAnate/rootafapi/internal/pkg/pagination"
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Entry is the write-side shape handed to LogIn. Optional parts stay
// zero when an action has no target or no value diff.
type Entry struct {
	AdminID     int64
	ActionType  domain.AdminActionType
	Description string
	TargetType  string
	TargetID    int64
	TargetName  string
	Previous    any
	New         any
	Changed     []string
	Additional  map[string]any
	IP          string
}

// LogIn appends an audit row through the caller's transaction.
func (s *Service) LogIn(tx *gorm.DB, e Entry) error {
	row := &domain.AdminActivityLog{
		AdminID:           e.AdminID,
		ActionType:        e.ActionType,
		ActionDescription: e.Description,
	}

	if e.TargetType != "" {
		t := e.TargetType
		row.TargetType = &t
	}
	if e.TargetID != 0 {
		id := e.TargetID
		row.TargetID = &id
	}
	if e.TargetName != "" {
		n := e.TargetName
		row.TargetName = &n
	}
	if e.IP != "" {
		ip := e.IP
		row.IPAddress = &ip
	}

	var err error
	if row.PreviousValues, err = marshalIf(e.Previous); err != nil {
		return err
	}
	if row.NewValues, err = marshalIf(e.New); err != nil {
		return err
	}
	if len(e.Changed) > 0 {
		if row.ChangedFields, err = json.Marshal(e.Changed); err != nil {
			return err
		}
	}
	if len(e.Additional) > 0 {
		if row.AdditionalData, err = json.Marshal(e.Additional); err != nil {
			return err
		}
	}

	return s.repo.CreateIn(tx, row)
}

func marshalIf(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (s *Service) List(ctx context.Context, filter ListFilter, page, limit int) ([]domain.AdminActivityLog, pagination.Meta, error) {
	p := pagination.Normalize(page, limit)

	entries, total, err := s.repo.List(ctx, filter, p.Offset, p.Limit)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return entries, pagination.NewMeta(total, p), nil
}
