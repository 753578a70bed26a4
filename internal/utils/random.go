package utils

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/shibutz-dev/shibutz/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var branchNames = []string{
	"תל אביב", "ירושלים", "חיפה", "באר שבע", "אשדוד",
	"ראשון לציון", "נתניה", "הרצליה", "רעננה", "פתח תקווה",
}

var firstNames = []string{
	"יוסי", "דנה", "אורי", "נועה", "עמית", "שירה", "איתי", "מאיה",
	"עומר", "תמר", "אלון", "רוני", "גיל", "ליאור", "נדב", "הילה",
	"עדן", "יובל", "שחר", "מיכל",
}

var lastNames = []string{
	"כהן", "לוי", "מזרחי", "פרץ", "ביטון", "דהן", "אברהם",
	"פרידמן", "מלכה", "אזולאי", "קץ", "שפירא",
}

func GenerateRandomBranchName() string {
	return branchNames[rand.Intn(len(branchNames))]
}

func GenerateRandomEmployeeName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

// GenerateRandomEmployeeColor produces a hex color dark enough to pass the
// lightness rule, so seeded employees always validate. Saturated yellows can
// exceed the cap even at moderate HSL lightness, hence the resample loop.
func GenerateRandomEmployeeColor() string {
	for {
		color := colorful.Hsl(rand.Float64()*360.0, 0.5+rand.Float64()*0.5, 0.25+rand.Float64()*0.35)
		if lightness, _, _ := color.Lab(); lightness <= MaxColorLightness {
			return color.Hex()
		}
	}
}

var digits = "0123456789"

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	randomPassword := make([]rune, length)
	for i := range randomPassword {
		randomPassword[i] = letters[rand.Intn(len(letters))]
	}
	return string(randomPassword)
}

var usernameLetters = "abcdefghijklmnopqrstuvwxyz"

func GenerateRandomUsername() string {
	username := make([]byte, 0, 10)
	for i := 0; i < 6; i++ {
		username = append(username, usernameLetters[rand.Intn(len(usernameLetters))])
	}
	for i := 0; i < 2; i++ {
		username = append(username, digits[rand.Intn(len(digits))])
	}
	return string(username)
}

func GenerateRandomBranch(password string, branchType domain.BranchType) (*domain.Branch, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	username := GenerateRandomUsername()
	branch := &domain.Branch{
		Name:         GenerateRandomBranchName(),
		Username:     username,
		PasswordHash: string(passwordHash),
		Email:        username + "@example.co.il",
		Type:         branchType,
	}

	return branch, nil
}

func GenerateRandomEmployee(branch *domain.Branch) *domain.Employee {
	e := &domain.Employee{
		ID:          uuid.New().String(),
		BranchID:    branch.ID,
		Name:        GenerateRandomEmployeeName(),
		Color:       GenerateRandomEmployeeColor(),
		Departments: make([]domain.Department, 0),
	}

	if branch.Type != domain.BranchTypeMoked {
		roles := domain.RolesFor(branch.Type)
		role := roles[rand.Intn(len(roles))]
		switch role {
		case domain.RoleManager:
			e.Departments = append(e.Departments, domain.DepartmentManager)
		case domain.RoleWaiters:
			e.Departments = append(e.Departments, domain.DepartmentWaiters)
		default:
			e.Departments = append(e.Departments, domain.DepartmentCooks)
		}
	}

	return e
}
