package days

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/nextapp/nextappd/api"
	"github.com/nextapp/nextappd/ctxuser"
	"github.com/nextapp/nextappd/db"
	"github.com/nextapp/nextappd/errors"
	"github.com/nextapp/nextappd/logger"
	"github.com/nextapp/nextappd/pubsub"
)

// Service implements the day-related methods of api.NextAppServer.
type Service struct {
	gw       *db.Gateway
	registry *pubsub.Registry
	log      *zap.SugaredLogger
}

// NewService wires the day service to its datastore gateway and the
// publisher registry SetColorOnDay/SetDay fan their updates through.
func NewService(gw *db.Gateway, registry *pubsub.Registry, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = logger.Logger
	}
	return &Service{gw: gw, registry: registry, log: log}
}

// GetDayColorDefinitions returns the global catalog ordered by score
// descending.
func (s *Service) GetDayColorDefinitions(ctx context.Context, _ *api.Empty) (*api.DayColorDefinitions, error) {
	rs, err := s.gw.Query(ctx, `SELECT id, name, color, score FROM day_colors WHERE tenant IS NULL ORDER BY score DESC`)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var out api.DayColorDefinitions
	rows := rs.Rows()
	for rows.Next() {
		var c api.DayColorDefinition
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Score); err != nil {
			return nil, errors.WithCode(errors.Wrap(err, "scan day color definition"), errors.CodeDatabaseError, err.Error())
		}
		out.Colors = append(out.Colors, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithCode(errors.Wrap(err, "iterate day color definitions"), errors.CodeDatabaseError, err.Error())
	}
	return &out, nil
}

// GetDay returns the stored diary record for date, or a synthetic empty
// record carrying the requested date and current user if none exists.
func (s *Service) GetDay(ctx context.Context, date *api.Date) (*api.CompleteDay, error) {
	userID, err := ctxuser.UserID(ctx)
	if err != nil {
		return nil, err
	}

	row := s.gw.QueryRow(ctx, `SELECT color, notes, report FROM day WHERE date = ? AND user = ?`, FromWireDate(*date), userID)

	var color, notes, report sql.NullString
	err = row.Scan(&color, &notes, &report)
	if err == sql.ErrNoRows {
		return &api.CompleteDay{Day: api.Day{Date: *date, User: userID}}, nil
	}
	if err != nil {
		return nil, errors.WithCode(errors.Wrap(err, "fetch day"), errors.CodeDatabaseError, err.Error())
	}

	return &api.CompleteDay{
		Day:       api.Day{Date: *date, User: userID, Color: db.StringOrEmpty(color)},
		Notes:     db.StringOrEmpty(notes),
		Report:    db.StringOrEmpty(report),
		HasNotes:  notes.Valid,
		HasReport: report.Valid,
	}, nil
}

// GetMonth returns every stored day in (user, year, month), with
// HasNotes/HasReport computed from column nullness.
func (s *Service) GetMonth(ctx context.Context, req *api.MonthRequest) (*api.Month, error) {
	userID, err := ctxuser.UserID(ctx)
	if err != nil {
		return nil, err
	}

	prefix := FromWireDate(api.Date{Year: req.Year, Month: req.Month, Mday: 1})[:7] // "YYYY-MM"
	rs, err := s.gw.Query(ctx,
		`SELECT date, color, notes, report FROM day WHERE user = ? AND date LIKE ? ORDER BY date`,
		userID, prefix+"%",
	)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	month := &api.Month{Year: req.Year, Month: req.Month}
	rows := rs.Rows()
	for rows.Next() {
		var stored string
		var color, notes, report sql.NullString
		if err := rows.Scan(&stored, &color, &notes, &report); err != nil {
			return nil, errors.WithCode(errors.Wrap(err, "scan month row"), errors.CodeDatabaseError, err.Error())
		}
		date, err := ToWireDate(stored)
		if err != nil {
			return nil, errors.WithCode(errors.Wrap(err, "decode stored date"), errors.CodeDatabaseError, err.Error())
		}
		month.Days = append(month.Days, api.MonthDay{
			Date:      date,
			Color:     db.StringOrEmpty(color),
			HasNotes:  notes.Valid,
			HasReport: report.Valid,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithCode(errors.Wrap(err, "iterate month rows"), errors.CodeDatabaseError, err.Error())
	}
	return month, nil
}

// SetColorOnDay upserts the color on (date, user); an empty color clears it.
// Publishes {day_color{date,user,color}}.
func (s *Service) SetColorOnDay(ctx context.Context, req *api.SetColorOnDayRequest) (*api.Status, error) {
	userID, err := ctxuser.UserID(ctx)
	if err != nil {
		return nil, err
	}

	stored := FromWireDate(req.Date)
	_, err = s.gw.Exec(ctx, `
		INSERT INTO day (date, user, color) VALUES (?, ?, ?)
		ON CONFLICT (date, user) DO UPDATE SET color = excluded.color
	`, stored, userID, db.NullString(req.Color))
	if err != nil {
		return nil, err
	}

	s.registry.Publish(&api.Update{DayColor: &api.DayColorUpdate{Date: req.Date, User: userID, Color: req.Color}})
	return &api.Status{}, nil
}

// SetDay upserts the full diary record; any empty string field becomes null.
// Publishes {day = submitted record}.
func (s *Service) SetDay(ctx context.Context, req *api.CompleteDay) (*api.Status, error) {
	userID, err := ctxuser.UserID(ctx)
	if err != nil {
		return nil, err
	}

	stored := FromWireDate(req.Day.Date)
	notes := req.Notes
	report := req.Report
	_, err = s.gw.Exec(ctx, `
		INSERT INTO day (date, user, color, notes, report) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (date, user) DO UPDATE SET color = excluded.color, notes = excluded.notes, report = excluded.report
	`, stored, userID, db.NullString(req.Day.Color), db.NullString(notes), db.NullString(report))
	if err != nil {
		return nil, err
	}

	submitted := req.Day
	submitted.User = userID
	s.registry.Publish(&api.Update{Day: &submitted})
	return &api.Status{}, nil
}
