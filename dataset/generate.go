package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/threatinsight/portal-backend/model"
)

// Value pools mirror the vocabulary of the public 2015-2024 threats dataset.
var (
	countries          = []string{"USA", "UK", "Germany", "France", "China", "India", "Japan", "Brazil", "Russia", "Australia"}
	attackTypes        = []string{"Phishing", "Ransomware", "Man-in-the-Middle", "DDoS", "SQL Injection", "Malware"}
	targetIndustries   = []string{"Education", "Retail", "IT", "Telecommunications", "Government", "Banking", "Healthcare"}
	attackSources      = []string{"Hacker Group", "Nation-state", "Insider", "Unknown"}
	vulnerabilityTypes = []string{"Unpatched Software", "Weak Passwords", "Social Engineering", "Zero-day"}
	defenseMechanisms  = []string{"VPN", "Firewall", "AI-based Detection", "Antivirus", "Encryption"}
)

// Generate builds n synthetic incidents. The same seed always yields the same table.
func Generate(n int, seed uint64) []model.Incident {
	faker := gofakeit.New(seed)

	out := make([]model.Incident, n)
	for i := range out {
		out[i] = model.Incident{
			Country:           faker.RandomString(countries),
			Year:              faker.IntRange(2015, 2024),
			AttackType:        faker.RandomString(attackTypes),
			TargetIndustry:    faker.RandomString(targetIndustries),
			FinancialLoss:     math.Round(faker.Float64Range(0.5, 100)*100) / 100,
			AffectedUsers:     int64(faker.IntRange(424, 999635)),
			AttackSource:      faker.RandomString(attackSources),
			VulnerabilityType: faker.RandomString(vulnerabilityTypes),
			DefenseMechanism:  faker.RandomString(defenseMechanisms),
			ResolutionHours:   float64(faker.IntRange(1, 72)),
		}
	}
	return out
}

// WriteCSV writes incidents using the source table schema.
func WriteCSV(w io.Writer, incidents []model.Incident) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, inc := range incidents {
		record := []string{
			inc.Country,
			strconv.Itoa(inc.Year),
			inc.AttackType,
			inc.TargetIndustry,
			strconv.FormatFloat(inc.FinancialLoss, 'f', -1, 64),
			strconv.FormatInt(inc.AffectedUsers, 10),
			inc.AttackSource,
			inc.VulnerabilityType,
			inc.DefenseMechanism,
			strconv.FormatFloat(inc.ResolutionHours, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
