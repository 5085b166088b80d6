package config

import "strings"

// astrologerID derives the routing ID used for an astrologer, matching the
// client convention: lower-cased name with whitespace runs replaced by dashes.
func astrologerID(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

func entry(name, image, experience, expertise, persona string) *Astrologer {
	return &Astrologer{
		ID:         astrologerID(name),
		Name:       name,
		Image:      image,
		Experience: experience,
		Expertise:  expertise,
		Persona:    persona,
	}
}

// Unsplash photo IDs reused across the catalog.
const (
	imgA = "https://images.unsplash.com/photo-1472396961693-142e6e269027"
	imgB = "https://images.unsplash.com/photo-1500673922987-e212871fec22"
	imgC = "https://images.unsplash.com/photo-1465146344425-f00d5f5c8f07"
	imgD = "https://images.unsplash.com/photo-1470813740244-df37b8c1edcb"
	imgE = "https://images.unsplash.com/photo-1466442929976-97f336a657be"
)

// DefaultCatalog returns the built-in astrologer catalog, used whenever
// config.yaml does not provide its own "categories" section.
func DefaultCatalog() []*Category {
	return []*Category{
		{
			ID:          1,
			Title:       "Love",
			Description: "Consult with our expert astrologers specialized in love matters",
			Astrologers: []*Astrologer{
				entry("Pandit Jayvant Sharma", imgA, "15+ Years", "Love & Relationship Expert", "relationship"),
				entry("Acharya Deepak Joshi", imgB, "12+ Years", "Relationship Counselor", "relationship"),
				entry("Guru Priya Malhotra", imgC, "10+ Years", "Love Astrology Specialist", "relationship"),
				entry("Dr. Amit Khanna", imgD, "8+ Years", "Relationship Guide", "relationship"),
				entry("Pandit Rajesh Kumar", imgE, "20+ Years", "Love Life Advisor", "relationship"),
			},
		},
		{
			ID:          2,
			Title:       "Marriage",
			Description: "Consult with our expert astrologers specialized in marriage matters",
			Astrologers: []*Astrologer{
				entry("Dr. Preeti Singh", imgC, "18+ Years", "Marriage Compatibility Expert", "relationship"),
				entry("Acharya Vikram Shastri", imgA, "14+ Years", "Wedding Muhurat Specialist", "relationship"),
				entry("Guru Kiran Jyotish", imgE, "16+ Years", "Marriage Counselor", "relationship"),
				entry("Pandit Ramesh Gupta", imgD, "12+ Years", "Matrimonial Astrologer", "relationship"),
				entry("Dr. Neha Sharma", imgB, "10+ Years", "Marriage Problem Solver", "relationship"),
			},
		},
		{
			ID:          3,
			Title:       "Career",
			Description: "Consult with our expert astrologers specialized in career matters",
			Astrologers: []*Astrologer{
				entry("Dr. Vijay Kapoor", imgD, "20+ Years", "Career Path Analyst", "career"),
				entry("Guru Shanti Devi", imgE, "15+ Years", "Professional Growth Expert", "career"),
				entry("Acharya Rahul Sharma", imgA, "12+ Years", "Job Change Specialist", "career"),
				entry("Pandit Suresh Kumar", imgB, "18+ Years", "Career Astrologer", "career"),
				entry("Dr. Ananya Verma", imgC, "10+ Years", "Business Success Guide", "career"),
			},
		},
		{
			ID:          4,
			Title:       "Life Coach",
			Description: "Consult with our expert astrologers specialized in life coach matters",
			Astrologers: []*Astrologer{
				entry("Guru Amrit Singh", imgE, "25+ Years", "Spiritual Life Guide", "spiritual"),
				entry("Dr. Maya Sharma", imgD, "15+ Years", "Holistic Life Coach", "spiritual"),
				entry("Acharya Raj Malhotra", imgB, "18+ Years", "Mindfulness Expert", "spiritual"),
				entry("Pandit Vikash Joshi", imgA, "20+ Years", "Personal Development Guru", "spiritual"),
				entry("Dr. Lakshmi Patel", imgC, "12+ Years", "Transformation Specialist", "spiritual"),
			},
		},
		{
			ID:          5,
			Title:       "Wealth",
			Description: "Consult with our expert astrologers specialized in wealth matters",
			Astrologers: []*Astrologer{
				entry("Pandit Dinesh Mehta", imgA, "20+ Years", "Financial Astrologer", "wealth"),
				entry("Dr. Ravi Aggarwal", imgE, "15+ Years", "Prosperity Guide", "wealth"),
				entry("Guru Meera Patel", imgD, "12+ Years", "Business Success Specialist", "wealth"),
				entry("Acharya Sundar Iyer", imgB, "18+ Years", "Wealth Accumulation Expert", "wealth"),
				entry("Dr. Anjali Sharma", imgC, "16+ Years", "Financial Growth Advisor", "wealth"),
			},
		},
		{
			ID:          6,
			Title:       "General",
			Description: "Consult with our expert astrologers specialized in general matters",
			Astrologers: []*Astrologer{
				entry("Acharya Devendra Shastri", imgE, "30+ Years", "Vedic Astrology Expert", "vedic"),
				entry("Guru Nirmala Devi", imgB, "25+ Years", "Traditional Astrologer", "vedic"),
				entry("Dr. Rajeev Kapoor", imgA, "20+ Years", "General Life Guide", "vedic"),
				entry("Pandit Hari Om", imgC, "15+ Years", "Holistic Astrologer", "vedic"),
				entry("Dr. Kavita Joshi", imgD, "18+ Years", "Spiritual Guide", "vedic"),
			},
		},
		{
			ID:          7,
			Title:       "Vastu",
			Description: "Consult with our expert astrologers specialized in vastu matters",
			Astrologers: []*Astrologer{
				entry("Guru Ram Shankar", imgA, "25+ Years", "Vastu Shastra Expert", "vastu"),
				entry("Dr. Sarita Gupta", imgE, "20+ Years", "Home & Office Vastu Specialist", "vastu"),
				entry("Acharya Mohan Das", imgB, "15+ Years", "Commercial Vastu Consultant", "vastu"),
				entry("Pandit Vinay Tiwari", imgD, "18+ Years", "Vastu & Feng Shui Master", "vastu"),
				entry("Dr. Sunita Agarwal", imgC, "12+ Years", "Residential Vastu Expert", "vastu"),
			},
		},
	}
}
