// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"bourse/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// SeedOptions tunes factory behavior.
type SeedOptions struct {
	// DryRun logs what would be created without touching the database.
	DryRun bool
	// MaxDays spreads created_at timestamps over this many days back.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	rand *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:     db,
		opts:   opts,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

// spreadCreatedAt returns a timestamp up to MaxDays in the past.
func (f *Factory) spreadCreatedAt() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rand.Intn(maxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}

var sectors = []string{
	"technology", "healthcare", "energy", "financials", "industrials",
	"consumer", "utilities", "materials", "real_estate", "telecom",
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:    gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:       gofakeit.Email(),
		FullName:    gofakeit.Name(),
		Bio:         gofakeit.Sentence(10),
		Avatar:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		AccountType: models.AccountTypeIndividual,
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s", user.Username)
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateFinancialProfile persists a random financial profile for the user.
func (f *Factory) CreateFinancialProfile(user *models.User) (*models.UserFinancialProfile, error) {
	levels := []models.ExperienceLevel{
		models.ExperienceBeginner, models.ExperienceIntermediate,
		models.ExperienceAdvanced, models.ExperienceProfessional,
	}
	risks := []models.RiskTolerance{models.RiskLow, models.RiskMedium, models.RiskHigh}

	n := 1 + f.rand.Intn(4)
	picked := make([]string, 0, n)
	for _, i := range f.rand.Perm(len(sectors))[:n] {
		picked = append(picked, sectors[i])
	}

	profile := &models.UserFinancialProfile{
		UserID:               user.ID,
		InvestmentExperience: levels[f.rand.Intn(len(levels))],
		RiskTolerance:        risks[f.rand.Intn(len(risks))],
		PreferredSectors:     picked,
	}

	if f.opts.DryRun {
		log.Printf("[dry-run] CreateFinancialProfile: user=%d", user.ID)
		return profile, nil
	}
	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// CreateCommunity constructs and persists a sample community.
func (f *Factory) CreateCommunity(creator *models.User, overrides ...func(*models.Community)) (*models.Community, error) {
	creatorID := creator.ID
	community := &models.Community{
		Name:        fmt.Sprintf("%s %s %d", gofakeit.AdjectiveDescriptive(), gofakeit.NounAbstract(), gofakeit.Number(10, 9999)),
		Description: gofakeit.Paragraph(1, 2, 8, " "),
		CreatorID:   &creatorID,
	}

	for _, override := range overrides {
		override(community)
	}

	if f.opts.DryRun {
		f.nextID++
		community.ID = f.nextID
		log.Printf("[dry-run] CreateCommunity: %s", community.Name)
		return community, nil
	}
	if err := f.db.Create(community).Error; err != nil {
		return nil, err
	}
	return community, nil
}

// AddMember joins the user to the community with the given role and keeps the
// cached member count in step.
func (f *Factory) AddMember(community *models.Community, user *models.User, role models.MembershipRole) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] AddMember: community=%d user=%d role=%s", community.ID, user.ID, role)
		return nil
	}
	return f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.CommunityMembership{
			CommunityID: community.ID,
			UserID:      user.ID,
			Role:        role,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Community{}).
			Where("id = ?", community.ID).
			UpdateColumn("member_count", gorm.Expr("member_count + ?", 1)).Error
	})
}

// BuildPost constructs a post without persisting it. Useful for batching.
func (f *Factory) BuildPost(user *models.User, postType models.PostType, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		UserID:     user.ID,
		Content:    gofakeit.Paragraph(1, 3, 5, "\n"),
		PostType:   postType,
		Visibility: models.VisibilityPublic,
		CreatedAt:  f.spreadCreatedAt(),
	}

	switch postType {
	case models.PostTypeImage:
		post.MediaURLs = []string{fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())}
	case models.PostTypeLink:
		post.MediaURLs = []string{gofakeit.URL()}
	case models.PostTypeFinancialAnalysis:
		ticker := gofakeit.LetterN(4)
		post.Content = fmt.Sprintf("$%s analysis: %s", ticker, post.Content)
		post.Tags = []string{"analysis", fmt.Sprintf("$%s", ticker)}
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call when possible.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateComment persists a sample comment on the post.
func (f *Factory) CreateComment(post *models.Post, user *models.User) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:  post.ID,
		UserID:  user.ID,
		Content: gofakeit.Sentence(12),
	}
	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		log.Printf("[dry-run] CreateComment: post=%d user=%d", post.ID, user.ID)
		return comment, nil
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateReaction persists a random reaction by the user on the post.
func (f *Factory) CreateReaction(post *models.Post, user *models.User) error {
	types := []models.ReactionType{
		models.ReactionLike, models.ReactionLove, models.ReactionInsight,
		models.ReactionDisagree, models.ReactionSurprised,
	}
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateReaction: post=%d user=%d", post.ID, user.ID)
		return nil
	}
	return f.db.Create(&models.PostReaction{
		PostID:       post.ID,
		UserID:       user.ID,
		ReactionType: types[f.rand.Intn(len(types))],
	}).Error
}
