package sitecontent

// ImagesBookExperienceFallback is substituted for bookExperience when an
// images section carries none.
var ImagesBookExperienceFallback = BookExperience{
	Title:       "Book Your Experience",
	Description: "Ready to bring the magic of flamenco guitar to your event? Let's create something extraordinary together.",
	ButtonText:  "Schedule Consultation",
}

const (
	defaultImageAlt     = "Performance image"
	defaultEventName    = "Event"
	eventAltSuffix      = " poster"
	upcomingEventsTitle = "Upcoming Events"
)

// DefaultContent returns the placeholder content shown when the datastore
// supplies nothing. Each call returns a fresh value.
func DefaultContent() Content {
	return Content{
		Navigation: Navigation{
			LogoText: "Ehab Guitarrista",
			MenuItems: MenuItems{
				Home:         "Home",
				Music:        "Music",
				Performances: "Performances",
				Contact:      "Contact",
			},
			CTAButton: "Book Now",
		},
		Hero: Hero{
			Title:            "Ehab Guitarrista",
			Subtitle:         "Professional Flamenco Guitarist & Composer",
			Image:            "/images/hero-guitar.jpg",
			BookButtonText:   "Book Performance",
			ListenButtonText: "Listen Now",
		},
		About: About{
			Title:           "Meet Ehab",
			MainDescription: "As a composer of original music, Ehab blends the fire of traditional flamenco with contemporary Canadian influences.",
			SecondParagraph: "Trained under master guitarists in Andalusia, he has spent more than a decade refining a voice that is both rooted and restless.",
			ThirdParagraph:  "His performances range from intimate private gatherings to festival stages across the country.",
			FourthParagraph: "Every concert is built around the moment: no two nights sound the same.",
			VideoURL:        "",
			VideoTitle:      "",
			Image:           "/images/about-portrait.jpg",
			ExtendedBio: ExtendedBio{
				EarlyLife: BioSection{
					Title: "Early Life & Education",
					Text:  "Ehab picked up his first guitar at the age of eight and never put it down.",
				},
				Mentorship: BioSection{
					Title: "Mentorship & Influences",
					Text:  "Years of study with flamenco masters shaped his technique and his respect for the tradition.",
				},
				Professional: BioSection{
					Title: "Professional Development",
					Text:  "Since turning professional he has toured widely and recorded original compositions.",
				},
				MusicalPhilosophy: BioSection{
					Title: "Musical Philosophy",
					Text:  "Music is a conversation between the player, the instrument and the room.",
				},
			},
		},
		Stats: Stats{
			YearsPerforming: Stat{Number: "15+", Label: "Years Performing"},
			CitiesToured:    Stat{Number: "50+", Label: "Cities Toured"},
			ShowsPlayed:     Stat{Number: "200+", Label: "Shows Played"},
			AwardsWon:       Stat{Number: "10+", Label: "Awards Won"},
		},
		Music: Music{
			Title:               "Featured Music",
			Subtitle:            "Original Compositions & Performances",
			FeaturedTracksTitle: "Featured Tracks",
			Tracks:              []Track{},
		},
		Contact: Contact{
			Title:             "Get in Touch",
			FormTitle:         "Book a Performance",
			InfoTitle:         "Contact Information",
			EmailLabel:        "Email",
			PhoneLabel:        "Phone",
			LocationLabel:     "Location",
			Email:             "contact@ehabguitarrista.com",
			Phone:             "+1 (555) 123-4567",
			Location:          "Available across Canada",
			ResponseTimeTitle: "Response Time",
			ResponseTime:      "All inquiries receive a response within 24 hours",
			BookButtonText:    "Book Ehab",
		},
		Footer: Footer{
			BrandTitle:       "Ehab Guitarrista",
			Description:      "Professional Flamenco Guitarist & Composer",
			Email:            "contact@ehabguitarrista.com",
			Phone:            "+1 (555) 123-4567",
			Services:         []string{"Weddings", "Corporate Events", "Private Parties", "Concerts"},
			CopyrightText:    "© 2024 Ehab Guitarrista. All rights reserved.",
			InfluencedByText: "Influenced by the masters of flamenco guitar",
		},
		PerformanceImages:   []ImageEntry{},
		UpcomingEventsTitle: upcomingEventsTitle,
		UpcomingEvents:      []ImageEntry{},
		BookExperience:      ImagesBookExperienceFallback,
		Videos: Videos{
			SlotAboutSection:       {},
			SlotBannerVideo:        {},
			SlotBillBourneMainPage: {},
		},
		LivePerformanceMoments: LivePerformanceMoments{Title: "Live Performance Moments"},
		PerformancePage: PerformancePage{
			MainTitle:         "Performances",
			MainSubtitle:      "Moments from the stage",
			EventsTitle:       upcomingEventsTitle,
			EventsDescription: "Catch Ehab live at one of these upcoming dates.",
		},
	}
}
