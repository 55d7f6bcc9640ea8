package database

import (
	"context"
	"fmt"
	"strings"

	"knowyourplate/config"
	"knowyourplate/internal/auth"
	"knowyourplate/internal/domain"
	"knowyourplate/internal/logger"
	"knowyourplate/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedAdmin creates the bootstrap admin when no admin account exists yet.
// Without a configured password a random one is generated and logged once.
func SeedAdmin(ctx context.Context, db *gorm.DB, cfg *config.AdminConfig, log *logger.Logger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	var taken int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&taken).Error; err != nil {
		return fmt.Errorf("check admin email: %w", err)
	}
	if taken > 0 {
		log.Entry().WithField("email", email).
			Error("bootstrap admin not created: ADMIN_EMAIL belongs to a non-admin user; set another ADMIN_EMAIL or promote that user")
		return nil
	}

	password := cfg.Password
	generated := password == ""
	if generated {
		password = uuid.NewString()
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	code, err := auth.GenerateReferralCode()
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:         cfg.Name,
		Email:        email,
		PasswordHash: hash,
		ReferralCode: code,
		IsAdmin:      true,
	}
	if err := db.WithContext(ctx).Create(admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	entry := log.Entry().WithField("email", email)
	if generated {
		entry.WithField("password", password).Warn("bootstrap admin created with generated password; change it after first login")
	} else {
		entry.Info("bootstrap admin created")
	}
	return nil
}

// SeedQuestions inserts the default catalog when the question table is empty.
func SeedQuestions(ctx context.Context, db *gorm.DB) (int, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Question{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	questions := DefaultQuestions()
	if err := db.WithContext(ctx).Create(&questions).Error; err != nil {
		return 0, fmt.Errorf("seed questions: %w", err)
	}
	return len(questions), nil
}

func intPtr(n int) *int { return &n }

// DefaultQuestions returns the Know Your Plate questionnaire.
func DefaultQuestions() []models.Question {
	yesMaybeNo := []string{"Yes", "Maybe", "No"}
	yesNo := []string{"Yes", "No"}

	q := []models.Question{
		{
			Text:    "How do you usually decide what to eat at a restaurant?",
			Type:    domain.QuestionTypeSingleChoice,
			Options: []string{"Cravings", "Recommendations", "Price", "Health/nutritional value", "Offers or combos"},
		},
		{
			Text:    "Have you ever come across a QR based digital menu system in a restaurant?",
			Type:    domain.QuestionTypeSingleChoice,
			Options: yesNo,
		},
		{
			Text:    "Would you prefer a QR Menu over a physical menu in a restaurant?",
			Type:    domain.QuestionTypeSingleChoice,
			Options: yesMaybeNo,
		},
		{
			Text:    "What matters most to you when choosing food? (Multiple choice)",
			Type:    domain.QuestionTypeMultipleChoice,
			Options: []string{"Taste", "Price", "Calories", "Ingredients", "Protein/Fitness", "Value", "Dietary preferences (Veg/Non-Veg/Vegan)"},
		},
		{
			Text:    "Do you look at ingredient lists or food labels when buying snacks/packaged food?",
			Type:    domain.QuestionTypeSingleChoice,
			Options: []string{"Always", "Sometimes", "Never"},
		},
		{
			Text:    "Do you usually check nutritional information (calories, protein etc.) before eating packaged or ordered food?",
			Type:    domain.QuestionTypeSingleChoice,
			Options: []string{"Yes, always", "Sometimes", "Never"},
		},
		{
			Text:    "Have you ever used a calorie tracking app (e.g. HealthifyMe, MyFitnessPal etc.)?",
			Type:    domain.QuestionTypeSingleChoice,
			Options: yesNo,
		},
		{
			Text:    "On a scale of 1–5, how confident are you in estimating how many calories are in a regular chicken biryani plate? (1 = Least confident to 5 = Most confident)",
			Type:    domain.QuestionTypeSingleChoice,
			Options: []string{"1(Very confident)", "2(Confident)", "3(Mildly confident)", "4(Not confident)", "5(Absolutely not confident)"},
		},
		{
			Text:    "Would you use a feature where you scan a QR code to get a menu where you can view the calories, carbs, vitamins and other nutritional contents of every dish on the menu?",
			Type:    domain.QuestionTypeSingleChoice,
			Options: []string{"Definitely", "Maybe", "No"},
		},
		{
			Text:    "Would you like to get personalised order suggestions from the QR scanned digital menu based on your profile?",
			Type:    domain.QuestionTypeSingleChoice,
			Options: yesMaybeNo,
		},
		{
			Text:    "Would you like to get notified about the allergens present in the meal you are about to order?",
			Type:    domain.QuestionTypeSingleChoice,
			Options: yesMaybeNo,
		},
		{
			Text:    "Would you like your invoice/bill to be generated online and sent to you through SMS and WhatsApp?",
			Type:    domain.QuestionTypeSingleChoice,
			Options: yesMaybeNo,
		},
		{
			Text: "KnowYourPlate can provide you with features like QR Based Menu System, digital bill for your orders, detailed ingredients list of every dish, detailed nutritional information of every dish, personalised allergen warning for every dish based on your profile, personalised order suggestions based on your health and fitness goals, restaurant crowd tracking, seamless online payment and tipping system. Select 4 out of the 8 features which are the most important for you.",
			Type: domain.QuestionTypeMultipleChoiceLimited,
			Options: []string{
				"QR Based Menu System",
				"Digital bill for your orders",
				"Detailed ingredients list of every dish",
				"Detailed nutritional information of every dish",
				"Personalised allergen warning for every dish based on your profile",
				"Personalised menu suggestions based on your health and fitness goals",
				"Restaurant crowd tracking",
				"Seamless online payment and tipping system",
			},
			RequiredSelections: intPtr(4),
		},
		{
			Text: "Which among these would be your top 3 reasons for using KnowYourPlate?",
			Type: domain.QuestionTypeMultipleChoiceLimited,
			Options: []string{
				"Convenience of a QR Scanned Menu at your fingertips",
				"Food transparency and proper ingredients list",
				"Health and fitness",
				"Personalised order suggestions",
				"Smooth ordering and payment experience",
				"Saving paper used for making physical menus and bills, indirectly benefiting the ecosystem",
			},
			RequiredSelections: intPtr(3),
		},
		{
			Text:    "Would you be willing to pay a small fee for a premium version of KnowYourPlate with advanced features (like health tracking, meal planning, personalised order suggestions based on your health and fitness goals, etc. )?",
			Type:    domain.QuestionTypeSingleChoice,
			Options: yesMaybeNo,
		},
		{
			Text: "What frustrates you most about the current restaurant dining or ordering experience?",
			Type: domain.QuestionTypeText,
		},
		{
			Text: "Would you like to suggest any more features in KnowYourPlate to improve your dining experience at restaurants?",
			Type: domain.QuestionTypeText,
		},
	}
	for i := range q {
		q[i].OrderIndex = i + 1
		q[i].IsActive = true
	}
	return q
}
