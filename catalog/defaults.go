package catalog

// Entity type discriminators of the community table.
const (
	EntityUser  = "USER"
	EntityEvent = "EVENT"
	EntityEmail = "EMAIL"
)

// Users describes the user profile indexes.
func Users() Catalog {
	return Catalog{
		EntityType: EntityUser,
		Attributes: []Attribute{
			{Name: "id", Kind: KindString},
			{Name: "firstName", Kind: KindString},
			{Name: "lastName", Kind: KindString},
			{Name: "email", Kind: KindString},
			{Name: "phoneNumber", Kind: KindString},
			{Name: "gender", Kind: KindString},
			{Name: "jobTitle", Kind: KindString},
			{Name: "company", Kind: KindString},
			{Name: "city", Kind: KindString},
			{Name: "state", Kind: KindString},
			{Name: "hostedEventCount", Kind: KindNumber},
			{Name: "attendedEventCount", Kind: KindNumber},
		},
		Indexes: []Index{
			{
				Name:              "GSI_ByLocation",
				PartitionKeyAttr:  "GSI_ByLocation_PK",
				PartitionTemplate: "LOCATION#{state}#{city}",
				SortKeyAttr:       "GSI_ByLocation_SK",
				Selectivity:       0.05,
			},
			{
				Name:              "GSI_ByCompany",
				PartitionKeyAttr:  "GSI_ByCompany_PK",
				PartitionTemplate: "COMPANY#{company}",
				SortKeyAttr:       "GSI_ByCompany_SK",
				Selectivity:       0.1,
			},
			{
				Name:              "GSI_ByJobTitle",
				PartitionKeyAttr:  "GSI_ByJobTitle_PK",
				PartitionTemplate: "JOBTITLE#{jobTitle}",
				SortKeyAttr:       "GSI_ByJobTitle_SK",
				Selectivity:       0.2,
			},
			{
				Name:              "GSI_UsersByHostedCount",
				PartitionKeyAttr:  "GSI_UsersByHostedCount_PK",
				PartitionTemplate: "USER_PROFILE",
				SortKeyAttr:       "GSI_UsersByHostedCount_SK",
				SortAttr:          "hostedEventCount",
				SortPrefix:        "HOSTED_COUNT#",
				SortFormat:        SortNumber,
				Selectivity:       0.8,
			},
			{
				Name:              "GSI_UsersByAttendedCount",
				PartitionKeyAttr:  "GSI_UsersByAttendedCount_PK",
				PartitionTemplate: "USER_PROFILE",
				SortKeyAttr:       "GSI_UsersByAttendedCount_SK",
				SortAttr:          "attendedEventCount",
				SortPrefix:        "ATTENDED_COUNT#",
				SortFormat:        SortNumber,
				Selectivity:       0.8,
			},
		},
		OrderAttr: "lastName",
	}
}

// Events describes the event detail indexes.
func Events() Catalog {
	return Catalog{
		EntityType: EntityEvent,
		Attributes: []Attribute{
			{Name: "id", Kind: KindString},
			{Name: "slug", Kind: KindString},
			{Name: "title", Kind: KindString},
			{Name: "venue", Kind: KindString},
			{Name: "owner", Kind: KindString},
			{Name: "startAt", Kind: KindTime},
			{Name: "endAt", Kind: KindTime},
			{Name: "maxCapacity", Kind: KindNumber},
			{Name: "attendeeCount", Kind: KindNumber},
		},
		Indexes: []Index{
			{
				Name:              "GSI_EventsByOwner",
				PartitionKeyAttr:  "GSI_EventsByOwner_PK",
				PartitionTemplate: "OWNER#{owner}",
				SortKeyAttr:       "GSI_EventsByOwner_SK",
				SortAttr:          "startAt",
				SortPrefix:        "START#",
				SortFormat:        SortTime,
				Selectivity:       0.1,
			},
			{
				Name:              "GSI_EventsByDate",
				PartitionKeyAttr:  "GSI_EventsByDate_PK",
				PartitionTemplate: "EVENT_TIMELINE",
				SortKeyAttr:       "GSI_EventsByDate_SK",
				SortAttr:          "startAt",
				SortPrefix:        "DATE#",
				SortFormat:        SortDate,
				Selectivity:       0.5,
			},
		},
		OrderAttr: "startAt",
	}
}

// Emails describes the email analytics indexes. Delivery status is not
// indexed; status filters fall back to a scan.
func Emails() Catalog {
	return Catalog{
		EntityType: EntityEmail,
		Attributes: []Attribute{
			{Name: "id", Kind: KindString},
			{Name: "userId", Kind: KindString},
			{Name: "email", Kind: KindString},
			{Name: "subject", Kind: KindString},
			{Name: "status", Kind: KindString},
			{Name: "campaignId", Kind: KindString},
			{Name: "utmCampaign", Kind: KindString},
			{Name: "utmSource", Kind: KindString},
			{Name: "utmMedium", Kind: KindString},
			{Name: "createdAt", Kind: KindTime},
			{Name: "sentAt", Kind: KindTime},
		},
		Indexes: []Index{
			{
				Name:              "GSI_EmailsByCampaign",
				PartitionKeyAttr:  "GSI_EmailsByCampaign_PK",
				PartitionTemplate: "CAMPAIGN#{utmCampaign}",
				SortKeyAttr:       "GSI_EmailsByCampaign_SK",
				SortAttr:          "createdAt",
				SortPrefix:        "CREATED#",
				SortFormat:        SortTime,
				Selectivity:       0.1,
			},
		},
		OrderAttr:  "createdAt",
		Descending: true,
	}
}

// Defaults returns a registry with the built-in USER, EVENT and EMAIL catalogs.
func Defaults() *Registry {
	r := NewRegistry()
	for _, c := range []Catalog{Users(), Events(), Emails()} {
		cat, err := New(c)
		if err != nil {
			panic(err) // built-in catalogs are static
		}
		if err := r.Register(cat); err != nil {
			panic(err)
		}
	}
	return r
}
