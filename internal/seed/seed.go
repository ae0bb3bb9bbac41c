// Package seed generates synthetic community data and writes it to the table.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jacentio/lattice/model"
)

// Putter writes one item.
type Putter interface {
	Put(ctx context.Context, item map[string]types.AttributeValue) error
}

// Counts is the number of records of each entity type to generate.
type Counts struct {
	Users  int
	Events int
	Emails int
}

// Dataset is a generated set of records.
type Dataset struct {
	Users  []model.User
	Events []model.Event
	Emails []model.EmailAnalytics
}

var (
	firstNames = []string{"Ada", "Grace", "Linus", "Barbara", "Ken", "Margaret", "Dennis", "Radia", "Alan", "Frances"}
	lastNames  = []string{"Lovelace", "Hopper", "Torvalds", "Liskov", "Thompson", "Hamilton", "Ritchie", "Perlman", "Turing", "Allen"}
	companies  = []string{"Acme", "Globex", "Initech", "Umbrella", "Hooli", "Stark"}
	jobTitles  = []string{"Engineer", "Designer", "Product Manager", "Founder", "Data Scientist"}
	locations  = [][2]string{{"Austin", "TX"}, {"Denver", "CO"}, {"Seattle", "WA"}, {"Boston", "MA"}, {"Portland", "OR"}}
	campaigns  = []string{"spring-launch", "summer-meetup", "newsletter", ""}
	statuses   = []string{model.StatusQueued, model.StatusSent, model.StatusDelivered, model.StatusOpened, model.StatusBounced, model.StatusFailed}
)

// Epoch is the earliest generated timestamp.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Generate builds a dataset. The same seed always yields the same dataset.
func Generate(seed uint64, n Counts) Dataset {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	ids := idSource(rng)

	var ds Dataset
	for i := 0; i < n.Users; i++ {
		loc := pick(rng, locations)
		u := model.User{
			ID:                 ids(),
			FirstName:          pick(rng, firstNames),
			LastName:           pick(rng, lastNames),
			JobTitle:           pick(rng, jobTitles),
			City:               loc[0],
			State:              loc[1],
			HostedEventCount:   int64(rng.IntN(12)),
			AttendedEventCount: int64(rng.IntN(40)),
		}
		u.Email = fmt.Sprintf("%s.%s.%d@example.com", u.FirstName, u.LastName, i)
		// A third of members leave their employer blank.
		if rng.IntN(3) > 0 {
			u.Company = pick(rng, companies)
		}
		ds.Users = append(ds.Users, u)
	}

	for i := 0; i < n.Events; i++ {
		owner := "unknown"
		if len(ds.Users) > 0 {
			owner = pick(rng, ds.Users).ID
		}
		start := Epoch.Add(time.Duration(rng.IntN(365*24)) * time.Hour)
		ds.Events = append(ds.Events, model.Event{
			ID:            ids(),
			Slug:          fmt.Sprintf("event-%04d", i),
			Title:         fmt.Sprintf("Meetup %d", i),
			Owner:         owner,
			StartAt:       start,
			EndAt:         start.Add(2 * time.Hour),
			MaxCapacity:   int64(20 + rng.IntN(200)),
			AttendeeCount: int64(rng.IntN(20)),
		})
	}

	for i := 0; i < n.Emails; i++ {
		m := model.EmailAnalytics{
			ID:          ids(),
			Subject:     "You're invited",
			Status:      pick(rng, statuses),
			CampaignID:  fmt.Sprintf("cmp-%d", rng.IntN(4)),
			UTMCampaign: pick(rng, campaigns),
			UTMSource:   "email",
			CreatedAt:   Epoch.Add(time.Duration(i) * time.Minute),
		}
		if len(ds.Users) > 0 {
			u := pick(rng, ds.Users)
			m.UserID, m.Email = u.ID, u.Email
		} else {
			m.UserID, m.Email = "unknown", fmt.Sprintf("guest%d@example.com", i)
		}
		if m.Status != model.StatusQueued {
			m.SentAt = m.CreatedAt.Add(time.Minute)
		}
		ds.Emails = append(ds.Emails, m)
	}

	return ds
}

// Items returns every record of the dataset as a table item.
func (ds Dataset) Items() ([]map[string]types.AttributeValue, error) {
	items := make([]map[string]types.AttributeValue, 0, len(ds.Users)+len(ds.Events)+len(ds.Emails))
	add := func(item map[string]types.AttributeValue, err error) error {
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	}

	for _, u := range ds.Users {
		if err := add(u.Item()); err != nil {
			return nil, fmt.Errorf("user %s: %w", u.ID, err)
		}
	}
	for _, e := range ds.Events {
		if err := add(e.Item()); err != nil {
			return nil, fmt.Errorf("event %s: %w", e.ID, err)
		}
	}
	for _, m := range ds.Emails {
		if err := add(m.Item()); err != nil {
			return nil, fmt.Errorf("email %s: %w", m.ID, err)
		}
	}
	return items, nil
}

// Writer puts items at a bounded rate.
type Writer struct {
	putter  Putter
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewWriter returns a writer. A non-positive writesPerSecond disables rate limiting.
func NewWriter(p Putter, writesPerSecond float64, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Inf
	if writesPerSecond > 0 {
		limit = rate.Limit(writesPerSecond)
	}
	return &Writer{
		putter:  p,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Write puts every item and returns the number written.
func (w *Writer) Write(ctx context.Context, items []map[string]types.AttributeValue) (int, error) {
	for i, item := range items {
		if err := w.limiter.Wait(ctx); err != nil {
			return i, err
		}
		if err := w.putter.Put(ctx, item); err != nil {
			return i, fmt.Errorf("put item %d: %w", i, err)
		}
		if (i+1)%100 == 0 {
			w.logger.Info("seeding", "written", i+1, "total", len(items))
		}
	}
	return len(items), nil
}

func pick[T any](rng *rand.Rand, from []T) T {
	return from[rng.IntN(len(from))]
}

// idSource returns deterministic UUIDs drawn from rng.
func idSource(rng *rand.Rand) func() string {
	r := rngReader{rng}
	return func() string {
		return uuid.Must(uuid.NewRandomFromReader(r)).String()
	}
}

type rngReader struct{ rng *rand.Rand }

func (r rngReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.rng.Uint32())
	}
	return len(p), nil
}
