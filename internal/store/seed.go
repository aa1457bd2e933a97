package store

import (
	"context"
	"fmt"

	"github.com/neetprep/neetprep/internal/quiz"
)

// Seed loads the sample PYQ bank when the question table is empty, so a
// fresh install has something to practice against before any real
// ingestion runs. Re-running it against a populated bank is a no-op.
func (s *Store) Seed(ctx context.Context) error {
	n, err := s.questions.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, q := range samplePYQs {
		if err := s.questions.Insert(ctx, q); err != nil {
			return fmt.Errorf("seed %q: %w", q.ID, err)
		}
	}
	return nil
}

var samplePYQs = []quiz.Question{
	{
		ID:      "NEET2023_PHY_001",
		Subject: quiz.SubjectPhysics,
		Topic:   "Work, Energy and Power",
		Text:    "A body of mass 2 kg is moving with velocity 10 m/s. What is its kinetic energy?",
		Options: [quiz.NumOptions]string{"50 J", "100 J", "200 J", "400 J"},
		CorrectOption: 1,
		Explanation:   "KE = (1/2)mv^2 = (1/2)(2)(10)^2 = 100 J",
		Year:          2023,
		Difficulty:    quiz.DifficultyEasy,
		IsPYQ:         true,
	},
	{
		ID:      "NEET2023_PHY_002",
		Subject: quiz.SubjectPhysics,
		Topic:   "Kinematics",
		Text:    "A particle starts from rest and accelerates uniformly at 2 m/s^2. What distance does it cover in 4 s?",
		Options: [quiz.NumOptions]string{"8 m", "16 m", "32 m", "4 m"},
		CorrectOption: 1,
		Explanation:   "s = (1/2)at^2 = (1/2)(2)(16) = 16 m",
		Year:          2023,
		Difficulty:    quiz.DifficultyEasy,
		IsPYQ:         true,
	},
	{
		ID:      "NEET2022_PHY_003",
		Subject: quiz.SubjectPhysics,
		Topic:   "Optics",
		Text:    "A convex lens of focal length 20 cm forms a real image at 60 cm. Where is the object placed?",
		Options: [quiz.NumOptions]string{"15 cm", "30 cm", "40 cm", "60 cm"},
		CorrectOption: 1,
		Explanation:   "1/f = 1/v - 1/u gives 1/20 = 1/60 + 1/u, so u = 30 cm",
		Year:          2022,
		Difficulty:    quiz.DifficultyMedium,
		IsPYQ:         true,
	},
	{
		ID:      "NEET2022_CHEM_001",
		Subject: quiz.SubjectChemistry,
		Topic:   "Organic Chemistry - Basic Principles",
		Text:    "Which of the following is an example of nucleophilic substitution reaction?",
		Options: [quiz.NumOptions]string{
			"CH3Cl + OH- -> CH3OH + Cl-",
			"C2H4 + H2 -> C2H6",
			"CH4 + Cl2 -> CH3Cl + HCl",
			"C2H4 + HBr -> C2H5Br",
		},
		CorrectOption: 0,
		Explanation:   "Nucleophilic substitution involves a nucleophile attacking an electrophilic carbon",
		Year:          2022,
		Difficulty:    quiz.DifficultyMedium,
		IsPYQ:         true,
	},
	{
		ID:      "NEET2023_CHEM_002",
		Subject: quiz.SubjectChemistry,
		Topic:   "Equilibrium",
		Text:    "For the reaction N2 + 3H2 <=> 2NH3, increasing the pressure shifts the equilibrium:",
		Options: [quiz.NumOptions]string{
			"Towards the reactants",
			"Towards the products",
			"No shift occurs",
			"First forward then backward",
		},
		CorrectOption: 1,
		Explanation:   "Higher pressure favours the side with fewer moles of gas; the product side has 2 moles against 4",
		Year:          2023,
		Difficulty:    quiz.DifficultyMedium,
		IsPYQ:         true,
	},
	{
		ID:      "NEET2023_BIO_001",
		Subject: quiz.SubjectBiology,
		Topic:   "Cell Structure and Function",
		Text:    "Which organelle is known as the powerhouse of the cell?",
		Options: [quiz.NumOptions]string{"Nucleus", "Mitochondria", "Ribosome", "Endoplasmic Reticulum"},
		CorrectOption: 1,
		Explanation:   "Mitochondria produce ATP through cellular respiration",
		Year:          2023,
		Difficulty:    quiz.DifficultyEasy,
		IsPYQ:         true,
	},
	{
		ID:      "NEET2022_BIO_002",
		Subject: quiz.SubjectBiology,
		Topic:   "Genetics and Evolution",
		Text:    "In a monohybrid cross between two heterozygous plants, the phenotypic ratio in F1 is:",
		Options: [quiz.NumOptions]string{"1:1", "3:1", "1:2:1", "9:3:3:1"},
		CorrectOption: 1,
		Explanation:   "Aa x Aa gives 3 dominant phenotypes to 1 recessive",
		Year:          2022,
		Difficulty:    quiz.DifficultyEasy,
		IsPYQ:         true,
	},
	{
		ID:      "NEET2021_BIO_003",
		Subject: quiz.SubjectBiology,
		Topic:   "Human Physiology",
		Text:    "Which part of the nephron is primarily responsible for the reabsorption of glucose?",
		Options: [quiz.NumOptions]string{
			"Proximal convoluted tubule",
			"Loop of Henle",
			"Distal convoluted tubule",
			"Collecting duct",
		},
		CorrectOption: 0,
		Explanation:   "Nearly all glucose is reabsorbed in the proximal convoluted tubule",
		Year:          2021,
		Difficulty:    quiz.DifficultyMedium,
		IsPYQ:         true,
	},
}
