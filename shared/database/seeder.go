package database

import (
	"log"
	"time"

	"rollcall-backend/shared/database/models"
	utils "rollcall-backend/shared/utils/auth"
)

// SeedDatabase creates the demo organization with a sample event and
// members. Safe to run repeatedly; existing rows are left untouched.
func SeedDatabase() error {
	log.Println("🌱 Seeding demo organization...")

	org, created, err := seedOrganization("Demo Organization")
	if err != nil {
		return err
	}
	if created {
		log.Printf("✅ Organization created: %s (ID: %d)", org.Name, org.ID)
	} else {
		log.Printf("✅ Organization already exists: %s (ID: %d)", org.Name, org.ID)
	}

	eventsCreated, err := seedSampleEvents(org.ID)
	if err != nil {
		return err
	}
	log.Printf("✅ Sample events created: %d", eventsCreated)

	membersCreated, err := seedSampleMembers(org.ID)
	if err != nil {
		return err
	}
	log.Printf("✅ Sample members created: %d", membersCreated)

	return nil
}

// seedOrganization finds or creates an organization by name
func seedOrganization(name string) (*models.Organization, bool, error) {
	var existing models.Organization
	if err := DB.Where("name = ?", name).First(&existing).Error; err == nil {
		return &existing, false, nil
	}

	org := models.Organization{Name: name}
	if err := DB.Create(&org).Error; err != nil {
		return nil, false, err
	}
	return &org, true, nil
}

// seedSampleEvents creates a welcome event for the organization
func seedSampleEvents(orgID uint) (int, error) {
	events := []models.Event{
		{
			OrganizationID: orgID,
			Name:           "Kickoff Meeting",
			EventDate:      time.Now().UTC().AddDate(0, 0, 7),
			Description:    "First gathering of the season",
		},
	}

	created := 0
	for _, event := range events {
		var existing models.Event
		result := DB.Where("organization_id = ? AND name = ?", orgID, event.Name).First(&existing)
		if result.Error != nil {
			code, err := utils.GenerateEventCode()
			if err != nil {
				return created, err
			}
			event.Code = code
			if err := DB.Create(&event).Error; err != nil {
				return created, err
			}
			created++
		}
	}

	return created, nil
}

// seedSampleMembers creates a few roster members for the organization
func seedSampleMembers(orgID uint) (int, error) {
	members := []models.Member{
		{OrganizationID: orgID, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", PhoneNumber: "+15551230001"},
		{OrganizationID: orgID, FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", PhoneNumber: "+15551230002"},
	}

	created := 0
	for _, member := range members {
		var existing models.Member
		result := DB.Where("organization_id = ? AND phone_number = ?", orgID, member.PhoneNumber).First(&existing)
		if result.Error != nil {
			if err := DB.Create(&member).Error; err != nil {
				return created, err
			}
			created++
		}
	}

	return created, nil
}
