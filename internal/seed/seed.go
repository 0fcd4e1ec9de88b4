package seed

import (
	"fmt"
	"log"

	"bourse/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	DryRun      bool
	MaxDays     int
}

// Seed populates the database with demo data: built-in communities, users
// with financial profiles, memberships, posts, comments, and reactions.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean && !opts.DryRun {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	if !opts.DryRun {
		if err := Communities(db); err != nil {
			return fmt.Errorf("failed to seed built-in communities: %w", err)
		}
	}

	factory := NewFactory(db, SeedOptions{DryRun: opts.DryRun, MaxDays: opts.MaxDays})

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d demo users created", len(users))

	communities, err := loadCommunities(db, factory, users)
	if err != nil {
		return fmt.Errorf("failed to load communities: %w", err)
	}
	log.Printf("✓ %d communities available", len(communities))

	if err := joinCommunities(factory, communities, users); err != nil {
		return fmt.Errorf("failed to create memberships: %w", err)
	}

	posts, err := createPosts(factory, users, communities, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	if err := createEngagement(factory, posts, users); err != nil {
		return fmt.Errorf("failed to create comments and reactions: %w", err)
	}

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE post_reactions, comments, posts, community_memberships, communities, user_financial_profiles, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(factory *Factory, count int) ([]*models.User, error) {
	if count <= 0 {
		count = 25
	}
	users := make([]*models.User, 0, count)

	for i := 0; i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		if _, err := factory.CreateFinancialProfile(user); err != nil {
			log.Printf("Failed to create financial profile for %s: %v", user.Username, err)
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

// loadCommunities returns the built-in communities plus a couple of
// user-created ones so creator ownership paths get exercised.
func loadCommunities(db *gorm.DB, factory *Factory, users []*models.User) ([]*models.Community, error) {
	var communities []*models.Community

	if !factory.opts.DryRun {
		var existing []models.Community
		if err := db.Find(&existing).Error; err != nil {
			return nil, err
		}
		for i := range existing {
			communities = append(communities, &existing[i])
		}
	}

	extras := len(users) / 10
	if extras < 2 {
		extras = 2
	}
	for i := 0; i < extras && i < len(users); i++ {
		community, err := factory.CreateCommunity(users[i])
		if err != nil {
			log.Printf("Failed to create community: %v", err)
			continue
		}
		communities = append(communities, community)
	}

	return communities, nil
}

func joinCommunities(factory *Factory, communities []*models.Community, users []*models.User) error {
	if len(communities) == 0 {
		return nil
	}
	total := 0
	for _, user := range users {
		joins := 1 + factory.rand.Intn(3)
		for j := 0; j < joins; j++ {
			community := communities[factory.rand.Intn(len(communities))]
			if err := factory.AddMember(community, user, models.RoleMember); err != nil {
				continue
			}
			total++
		}
	}
	log.Printf("✓ %d memberships created", total)
	return nil
}

func createPosts(factory *Factory, users []*models.User, communities []*models.Community, count int) ([]*models.Post, error) {
	if count <= 0 {
		count = 100
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no users to author posts")
	}

	postTypes := []models.PostType{
		models.PostTypeText, models.PostTypeText, models.PostTypeText,
		models.PostTypeFinancialAnalysis, models.PostTypeFinancialAnalysis,
		models.PostTypeImage, models.PostTypeVideo, models.PostTypeLink,
	}

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		user := users[factory.rand.Intn(len(users))]
		postType := postTypes[factory.rand.Intn(len(postTypes))]

		post := factory.BuildPost(user, postType, func(p *models.Post) {
			// Roughly a third of posts go to a community.
			if len(communities) > 0 && factory.rand.Intn(3) == 0 {
				community := communities[factory.rand.Intn(len(communities))]
				p.CommunityID = &community.ID
				if factory.rand.Intn(4) == 0 {
					p.Visibility = models.VisibilityCommunity
				}
			}
		})
		posts = append(posts, post)

		if i > 0 && i%100 == 0 {
			log.Printf("Built %d posts...", i)
		}
	}

	if err := factory.CreatePostsBatch(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func createEngagement(factory *Factory, posts []*models.Post, users []*models.User) error {
	if len(posts) == 0 || len(users) == 0 {
		return nil
	}

	comments, reactions := 0, 0
	for _, post := range posts {
		numComments := factory.rand.Intn(6)
		for i := 0; i < numComments; i++ {
			user := users[factory.rand.Intn(len(users))]
			if _, err := factory.CreateComment(post, user); err != nil {
				continue
			}
			comments++
		}

		numReactions := factory.rand.Intn(10)
		for i := 0; i < numReactions; i++ {
			user := users[factory.rand.Intn(len(users))]
			if err := factory.CreateReaction(post, user); err != nil {
				continue
			}
			reactions++
		}
	}

	log.Printf("✓ %d comments and %d reactions created", comments, reactions)
	return nil
}
