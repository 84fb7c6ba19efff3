package testutil

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/uscann/chemtrack/internal/models"
)

// Password is the plaintext password of every seeded identity.
const Password = "correct-horse"

// Fixture is a small inventory: two PIs in two buildings, one user working
// for the first PI only.
//
//	Chemistry 101 (Curie)   shelf A: Acetone (CHEM-001)
//	Chemistry 102 (Curie)            Sodium Chloride (CHEM-002)
//	Physics 201   (Fermi)            Acetone (CHEM-003)
type Fixture struct {
	Chemistry models.Building
	Physics   models.Building

	Curie models.PI
	Fermi models.PI
	Alice models.User

	Room101 models.Room
	Room102 models.Room
	Room201 models.Room

	ShelfA models.Space

	Acetone  models.Chemical
	Salt     models.Chemical
	Acetone2 models.Chemical
}

// HashPassword hashes at minimum cost to keep tests fast.
func HashPassword(t testing.TB, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	return string(hash)
}

// Seed inserts the fixture inventory.
func Seed(t testing.TB, db *gorm.DB) *Fixture {
	t.Helper()

	hash := HashPassword(t, Password)
	f := &Fixture{
		Chemistry: models.Building{Name: "Chemistry"},
		Physics:   models.Building{Name: "Physics"},
		Curie:     models.PI{Name: "Marie Curie", Email: "curie@example.edu", PasswordHash: hash},
		Fermi:     models.PI{Name: "Enrico Fermi", Email: "fermi@example.edu", PasswordHash: hash},
	}

	mustCreate(t, db, &f.Chemistry)
	mustCreate(t, db, &f.Physics)
	mustCreate(t, db, &f.Curie)
	mustCreate(t, db, &f.Fermi)

	f.Alice = models.User{Name: "Alice", Email: "alice@example.edu", PasswordHash: hash}
	mustCreate(t, db, &f.Alice)
	if err := db.Model(&f.Alice).Association("PIs").Append(&f.Curie); err != nil {
		t.Fatalf("Failed to associate user: %v", err)
	}

	f.Room101 = models.Room{BuildingID: f.Chemistry.ID, RoomNumber: "101", PIID: f.Curie.ID, ContactName: "Pierre", ContactPhone: "555-0101"}
	f.Room102 = models.Room{BuildingID: f.Chemistry.ID, RoomNumber: "102", PIID: f.Curie.ID}
	f.Room201 = models.Room{BuildingID: f.Physics.ID, RoomNumber: "201", PIID: f.Fermi.ID}
	mustCreate(t, db, &f.Room101)
	mustCreate(t, db, &f.Room102)
	mustCreate(t, db, &f.Room201)

	f.ShelfA = models.Space{RoomID: f.Room101.ID, Description: "Shelf A", SpaceType: "shelf", Label: "S-A"}
	mustCreate(t, db, &f.ShelfA)

	expires := datatypes.Date(time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC))
	f.Acetone = models.Chemical{
		Name: "Acetone", CASNumber: "67-64-1", Barcode: "CHEM-001",
		RoomID: f.Room101.ID, SpaceID: &f.ShelfA.ID,
		Amount: 2, Unit: "kg", TotalWeightLbs: 4.40924,
		ExpirationDate: &expires,
	}
	f.Salt = models.Chemical{
		Name: "Sodium Chloride", CASNumber: "7647-14-5", Barcode: "CHEM-002",
		RoomID: f.Room102.ID, Amount: 5, Unit: "lbs", TotalWeightLbs: 5,
	}
	f.Acetone2 = models.Chemical{
		Name: "Acetone", CASNumber: "67-64-1", Barcode: "CHEM-003",
		RoomID: f.Room201.ID, Amount: 1, Unit: "L", TotalWeightLbs: 2.20462,
	}
	mustCreate(t, db, &f.Acetone)
	mustCreate(t, db, &f.Salt)
	mustCreate(t, db, &f.Acetone2)

	return f
}

func mustCreate(t testing.TB, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("Failed to seed %T: %v", value, err)
	}
}
