// Package model defines the single-table item layouts of the community
// entities, including the secondary index keys the default catalogs query.
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/jacentio/lattice/catalog"
	"github.com/jacentio/lattice/internal/keys"
)

// ErrMissingField is returned when an item lacks a field its keys are built from.
var ErrMissingField = errors.New("lattice: missing required field")

// ErrCounterRange is returned when an indexed counter does not fit its
// fixed-width sort key segment.
var ErrCounterRange = errors.New("lattice: counter out of range")

// NewID returns a random entity id.
func NewID() string {
	return uuid.NewString()
}

// User is a community member profile.
type User struct {
	ID                 string `dynamodbav:"id"`
	FirstName          string `dynamodbav:"firstName"`
	LastName           string `dynamodbav:"lastName"`
	PhoneNumber        string `dynamodbav:"phoneNumber,omitempty"`
	Email              string `dynamodbav:"email"`
	Avatar             string `dynamodbav:"avatar,omitempty"`
	Gender             string `dynamodbav:"gender,omitempty"`
	JobTitle           string `dynamodbav:"jobTitle,omitempty"`
	Company            string `dynamodbav:"company,omitempty"`
	City               string `dynamodbav:"city,omitempty"`
	State              string `dynamodbav:"state,omitempty"`
	HostedEventCount   int64  `dynamodbav:"hostedEventCount"`
	AttendedEventCount int64  `dynamodbav:"attendedEventCount"`
}

// Item returns the profile item with its index keys. Optional index
// attributes are only written when the indexed fields are set.
func (u User) Item() (map[string]types.AttributeValue, error) {
	if u.ID == "" || u.LastName == "" {
		return nil, fmt.Errorf("%w: user id and last name", ErrMissingField)
	}
	for _, n := range []int64{u.HostedEventCount, u.AttendedEventCount} {
		if n < 0 || n > keys.MaxCounter {
			return nil, fmt.Errorf("%w: %d", ErrCounterRange, n)
		}
	}

	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return nil, fmt.Errorf("marshal user: %w", err)
	}

	byName := keys.LastName(u.LastName, u.ID)
	setKeys(item, keys.Entity(catalog.EntityUser, u.ID), "PROFILE", catalog.EntityUser)

	if u.Company != "" {
		setIndex(item, "GSI_ByCompany", "COMPANY#"+u.Company, byName)
	}
	if u.JobTitle != "" {
		setIndex(item, "GSI_ByJobTitle", "JOBTITLE#"+u.JobTitle, byName)
	}
	if u.City != "" && u.State != "" {
		setIndex(item, "GSI_ByLocation", fmt.Sprintf("LOCATION#%s#%s", u.State, u.City), byName)
	}
	setIndex(item, "GSI_UsersByHostedCount", "USER_PROFILE", keys.Counter("HOSTED_COUNT#", u.HostedEventCount, u.ID))
	setIndex(item, "GSI_UsersByAttendedCount", "USER_PROFILE", keys.Counter("ATTENDED_COUNT#", u.AttendedEventCount, u.ID))

	return item, nil
}

// Event is a scheduled community event.
type Event struct {
	ID            string    `dynamodbav:"id"`
	Slug          string    `dynamodbav:"slug"`
	Title         string    `dynamodbav:"title"`
	Description   string    `dynamodbav:"description,omitempty"`
	Venue         string    `dynamodbav:"venue,omitempty"`
	Owner         string    `dynamodbav:"owner"`
	StartAt       time.Time `dynamodbav:"-"`
	EndAt         time.Time `dynamodbav:"-"`
	MaxCapacity   int64     `dynamodbav:"maxCapacity"`
	AttendeeCount int64     `dynamodbav:"attendeeCount"`
}

// Item returns the event detail item with its index keys.
func (e Event) Item() (map[string]types.AttributeValue, error) {
	if e.ID == "" || e.Owner == "" || e.StartAt.IsZero() {
		return nil, fmt.Errorf("%w: event id, owner and start time", ErrMissingField)
	}

	item, err := attributevalue.MarshalMap(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	start := keys.Timestamp(e.StartAt)
	item["startAt"] = &types.AttributeValueMemberS{Value: start}
	if !e.EndAt.IsZero() {
		item["endAt"] = &types.AttributeValueMemberS{Value: keys.Timestamp(e.EndAt)}
	}

	setKeys(item, keys.Entity(catalog.EntityEvent, e.ID), "DETAIL", catalog.EntityEvent)
	setIndex(item, "GSI_EventsByOwner", "OWNER#"+e.Owner, "START#"+start+"#EVENT#"+e.ID)
	setIndex(item, "GSI_EventsByDate", "EVENT_TIMELINE", keys.Date(e.StartAt)+"#EVENT#"+e.ID)

	return item, nil
}

// Email delivery statuses.
const (
	StatusQueued    = "queued"
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusOpened    = "opened"
	StatusBounced   = "bounced"
	StatusFailed    = "failed"
)

// EmailAnalytics tracks one campaign email sent to one user.
type EmailAnalytics struct {
	ID          string    `dynamodbav:"id"`
	UserID      string    `dynamodbav:"userId"`
	Email       string    `dynamodbav:"email"`
	Subject     string    `dynamodbav:"subject"`
	Status      string    `dynamodbav:"status"`
	CampaignID  string    `dynamodbav:"campaignId"`
	UTMCampaign string    `dynamodbav:"utmCampaign,omitempty"`
	UTMSource   string    `dynamodbav:"utmSource,omitempty"`
	UTMMedium   string    `dynamodbav:"utmMedium,omitempty"`
	CreatedAt   time.Time `dynamodbav:"-"`
	SentAt      time.Time `dynamodbav:"-"`
}

// Item returns the analytics item. Only emails with a UTM campaign are
// written to the campaign index.
func (m EmailAnalytics) Item() (map[string]types.AttributeValue, error) {
	if m.ID == "" || m.CreatedAt.IsZero() {
		return nil, fmt.Errorf("%w: email id and creation time", ErrMissingField)
	}
	if m.Status == "" {
		m.Status = StatusQueued
	}

	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return nil, fmt.Errorf("marshal email analytics: %w", err)
	}

	created := keys.Timestamp(m.CreatedAt)
	item["createdAt"] = &types.AttributeValueMemberS{Value: created}
	if !m.SentAt.IsZero() {
		item["sentAt"] = &types.AttributeValueMemberS{Value: keys.Timestamp(m.SentAt)}
	}

	setKeys(item, keys.Entity(catalog.EntityEmail, m.ID), "ANALYTICS", catalog.EntityEmail)
	if m.UTMCampaign != "" {
		setIndex(item, "GSI_EmailsByCampaign", "CAMPAIGN#"+m.UTMCampaign, "CREATED#"+created+"#EMAIL#"+m.ID)
	}

	return item, nil
}

func setKeys(item map[string]types.AttributeValue, pk, sk, entityType string) {
	item["PK"] = &types.AttributeValueMemberS{Value: pk}
	item["SK"] = &types.AttributeValueMemberS{Value: sk}
	item[catalog.EntityTypeAttr] = &types.AttributeValueMemberS{Value: entityType}
}

func setIndex(item map[string]types.AttributeValue, index, pk, sk string) {
	item[index+"_PK"] = &types.AttributeValueMemberS{Value: pk}
	item[index+"_SK"] = &types.AttributeValueMemberS{Value: sk}
}
