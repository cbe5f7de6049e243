package sitecontent

// Normalize builds the fully-defaulted Content for a raw record.
//
// The result starts as a copy of defaults; sections are decoded and merged
// in record order, so for any output field the last section that supplies
// it wins. Flattened biography keys are regrouped into about.extendedBio
// once, after every section has been merged. Normalize never fails and
// never modifies defaults.
func Normalize(raw RawRecord, defaults Content) Content {
	state := mergeState{content: defaults.Clone()}
	for _, rs := range raw.Sections {
		state = state.merge(DecodeSection(rs.Name, rs.Value))
	}
	return state.finish()
}

// mergeState is the value threaded through the section reduce. Every merge
// returns a new state; maps and slices reachable from a previous state are
// never written.
type mergeState struct {
	content Content
	flat    FlatBio
}

func (st mergeState) merge(s Section) mergeState {
	c := st.content
	switch s := s.(type) {
	case NavigationSection:
		c.Navigation = mergeNavigation(c.Navigation, s.Navigation)
	case HeroSection:
		c.Hero = mergeHero(c.Hero, s.Hero)
	case AboutSection:
		c.About = mergeAbout(c.About, s.About)
		c.Videos = mergeVideos(c.Videos, []NamedSlot{{
			Name: SlotAboutSection,
			Slot: VideoSlot{Title: s.VideoTitle, File: s.VideoURL},
		}})
		st.flat = mergeFlatBio(st.flat, s.Flat)
	case FlatBioSection:
		st.flat = mergeFlatBio(st.flat, s.Flat)
	case StatsSection:
		c.Stats = mergeStats(c.Stats, s.Stats)
		c.LivePerformanceMoments.Title = pick(s.LivePerformanceMomentsTitle, c.LivePerformanceMoments.Title)
	case MusicSection:
		c.Music = mergeMusic(c.Music, s.Music)
	case ContactSection:
		c.Contact = mergeContact(c.Contact, s.Contact)
	case FooterSection:
		c.Footer = mergeFooter(c.Footer, s.Footer)
	case PerformanceImagesSection:
		c.PerformanceImages = mergeList(c.PerformanceImages, s.Images)
	case UpcomingEventsSection:
		c.UpcomingEvents = mergeList(c.UpcomingEvents, s.Events)
	case UpcomingEventsTitleSection:
		c.UpcomingEventsTitle = pick(s.Title, c.UpcomingEventsTitle)
	case BookExperienceSection:
		c.BookExperience = mergeBookExperience(c.BookExperience, s.BookExperience)
	case ImagesSection:
		c.PerformanceImages = mergeList(c.PerformanceImages, s.PerformanceImages)
		c.UpcomingEvents = mergeList(c.UpcomingEvents, s.UpcomingEvents)
		if s.BookExperience != nil {
			c.BookExperience = mergeBookExperience(c.BookExperience, *s.BookExperience)
		} else {
			c.BookExperience = ImagesBookExperienceFallback
		}
		c.PerformancePage = mergePerformancePage(c.PerformancePage, s.PerformancePage)
	case VideosSection:
		c.Videos = mergeVideos(c.Videos, s.Slots)
		c.Videos = replaceSlots(c.Videos, s.PerformanceVideos)
	case LivePerformanceMomentsSection:
		c.LivePerformanceMoments.Title = pick(s.Title, c.LivePerformanceMoments.Title)
	case PerformancePageSection:
		c.PerformancePage = mergePerformancePage(c.PerformancePage, s.PerformancePage)
	case UnrecognizedSection:
		// ignored
	}
	st.content = c
	return st
}

func (st mergeState) finish() Content {
	c := st.content
	c.About.ExtendedBio = applyFlatBio(c.About.ExtendedBio, st.flat)
	return c.withShape()
}

func mergeNavigation(cur, in Navigation) Navigation {
	cur.LogoText = pick(in.LogoText, cur.LogoText)
	cur.MenuItems.Home = pick(in.MenuItems.Home, cur.MenuItems.Home)
	cur.MenuItems.Music = pick(in.MenuItems.Music, cur.MenuItems.Music)
	cur.MenuItems.Performances = pick(in.MenuItems.Performances, cur.MenuItems.Performances)
	cur.MenuItems.Contact = pick(in.MenuItems.Contact, cur.MenuItems.Contact)
	cur.CTAButton = pick(in.CTAButton, cur.CTAButton)
	return cur
}

func mergeHero(cur, in Hero) Hero {
	cur.Title = pick(in.Title, cur.Title)
	cur.Subtitle = pick(in.Subtitle, cur.Subtitle)
	cur.Image = pick(in.Image, cur.Image)
	cur.BookButtonText = pick(in.BookButtonText, cur.BookButtonText)
	cur.ListenButtonText = pick(in.ListenButtonText, cur.ListenButtonText)
	return cur
}

func mergeAbout(cur, in About) About {
	cur.Title = pick(in.Title, cur.Title)
	cur.MainDescription = pick(in.MainDescription, cur.MainDescription)
	cur.SecondParagraph = pick(in.SecondParagraph, cur.SecondParagraph)
	cur.ThirdParagraph = pick(in.ThirdParagraph, cur.ThirdParagraph)
	cur.FourthParagraph = pick(in.FourthParagraph, cur.FourthParagraph)
	cur.VideoURL = pick(in.VideoURL, cur.VideoURL)
	cur.VideoTitle = pick(in.VideoTitle, cur.VideoTitle)
	cur.Image = pick(in.Image, cur.Image)
	cur.ExtendedBio = mergeBio(cur.ExtendedBio, in.ExtendedBio)
	return cur
}

func mergeBio(cur, in ExtendedBio) ExtendedBio {
	part := func(cur, in BioSection) BioSection {
		return BioSection{Title: pick(in.Title, cur.Title), Text: pick(in.Text, cur.Text)}
	}
	return ExtendedBio{
		EarlyLife:         part(cur.EarlyLife, in.EarlyLife),
		Mentorship:        part(cur.Mentorship, in.Mentorship),
		Professional:      part(cur.Professional, in.Professional),
		MusicalPhilosophy: part(cur.MusicalPhilosophy, in.MusicalPhilosophy),
	}
}

func mergeFlatBio(cur, in FlatBio) FlatBio {
	return FlatBio{mergeBio(cur.ExtendedBio, in.ExtendedBio)}
}

// applyFlatBio regroups flattened biography values into the nested
// structure. Flattened values win over nested ones.
func applyFlatBio(bio ExtendedBio, flat FlatBio) ExtendedBio {
	if flat.IsZero() {
		return bio
	}
	return mergeBio(bio, flat.ExtendedBio)
}

func mergeStats(cur, in Stats) Stats {
	stat := func(cur, in Stat) Stat {
		return Stat{Number: pick(in.Number, cur.Number), Label: pick(in.Label, cur.Label)}
	}
	return Stats{
		YearsPerforming: stat(cur.YearsPerforming, in.YearsPerforming),
		CitiesToured:    stat(cur.CitiesToured, in.CitiesToured),
		ShowsPlayed:     stat(cur.ShowsPlayed, in.ShowsPlayed),
		AwardsWon:       stat(cur.AwardsWon, in.AwardsWon),
	}
}

func mergeMusic(cur, in Music) Music {
	cur.Title = pick(in.Title, cur.Title)
	cur.Subtitle = pick(in.Subtitle, cur.Subtitle)
	cur.FeaturedTracksTitle = pick(in.FeaturedTracksTitle, cur.FeaturedTracksTitle)
	cur.Tracks = mergeList(cur.Tracks, in.Tracks)
	return cur
}

func mergeContact(cur, in Contact) Contact {
	cur.Title = pick(in.Title, cur.Title)
	cur.FormTitle = pick(in.FormTitle, cur.FormTitle)
	cur.InfoTitle = pick(in.InfoTitle, cur.InfoTitle)
	cur.EmailLabel = pick(in.EmailLabel, cur.EmailLabel)
	cur.PhoneLabel = pick(in.PhoneLabel, cur.PhoneLabel)
	cur.LocationLabel = pick(in.LocationLabel, cur.LocationLabel)
	cur.Email = pick(in.Email, cur.Email)
	cur.Phone = pick(in.Phone, cur.Phone)
	cur.Location = pick(in.Location, cur.Location)
	cur.ResponseTimeTitle = pick(in.ResponseTimeTitle, cur.ResponseTimeTitle)
	cur.ResponseTime = pick(in.ResponseTime, cur.ResponseTime)
	cur.BookButtonText = pick(in.BookButtonText, cur.BookButtonText)
	return cur
}

func mergeFooter(cur, in Footer) Footer {
	cur.BrandTitle = pick(in.BrandTitle, cur.BrandTitle)
	cur.Description = pick(in.Description, cur.Description)
	cur.Email = pick(in.Email, cur.Email)
	cur.Phone = pick(in.Phone, cur.Phone)
	cur.Services = mergeList(cur.Services, in.Services)
	cur.CopyrightText = pick(in.CopyrightText, cur.CopyrightText)
	cur.InfluencedByText = pick(in.InfluencedByText, cur.InfluencedByText)
	return cur
}

func mergeBookExperience(cur, in BookExperience) BookExperience {
	cur.Title = pick(in.Title, cur.Title)
	cur.Description = pick(in.Description, cur.Description)
	cur.ButtonText = pick(in.ButtonText, cur.ButtonText)
	return cur
}

func mergePerformancePage(cur, in PerformancePage) PerformancePage {
	cur.MainTitle = pick(in.MainTitle, cur.MainTitle)
	cur.MainSubtitle = pick(in.MainSubtitle, cur.MainSubtitle)
	cur.EventsTitle = pick(in.EventsTitle, cur.EventsTitle)
	cur.EventsDescription = pick(in.EventsDescription, cur.EventsDescription)
	return cur
}

// mergeList replaces a sequence when the section supplies a non-empty one.
func mergeList[T any](cur, in []T) []T {
	if len(in) == 0 {
		return cur
	}
	return cloneSlice(in)
}

// mergeVideos overlays the non-empty fields of each slot onto a copy of cur.
func mergeVideos(cur Videos, slots []NamedSlot) Videos {
	if len(slots) == 0 {
		return cur
	}
	out := copyVideos(cur)
	for _, ns := range slots {
		existing := out[ns.Name]
		out[ns.Name] = VideoSlot{
			Title:       pick(ns.Slot.Title, existing.Title),
			Description: pick(ns.Slot.Description, existing.Description),
			File:        pick(ns.Slot.File, existing.File),
		}
	}
	return out
}

// replaceSlots writes each slot whole onto a copy of cur.
func replaceSlots(cur Videos, slots []NamedSlot) Videos {
	if len(slots) == 0 {
		return cur
	}
	out := copyVideos(cur)
	for _, ns := range slots {
		out[ns.Name] = ns.Slot
	}
	return out
}

func copyVideos(v Videos) Videos {
	out := make(Videos, len(v)+4)
	for name, slot := range v {
		out[name] = slot
	}
	return out
}
