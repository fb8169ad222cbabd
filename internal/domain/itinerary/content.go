package itinerary

var trip = Trip{
	Icon:     "🏰",
	Title:    "Orlando 2026",
	Subtitle: "Our family adventure, planned together",
	Dates:    "Feb 19–23, 2026",
	Footer:   "Made with ☀️ for our February escape from winter.",
}

func p(text string) Block { return Block{Kind: BlockParagraph, Text: text} }

func lead(l, text string) Block { return Block{Kind: BlockParagraph, Lead: l, Text: text} }

func info(text string) Block { return Block{Kind: BlockInfo, Text: text} }

func tip(l, text string) Block { return Block{Kind: BlockInfo, Lead: l, Text: text, Tip: true} }

func chips(names ...string) Block { return Block{Kind: BlockAttendance, Items: items(names)} }

func list(entries ...string) Block { return Block{Kind: BlockList, Items: items(entries)} }

func withNote(b Block, text string) Block {
	b.Items = append(b.Items, Chip{Text: text, Note: true})
	return b
}

func items(texts []string) []Chip {
	out := make([]Chip, len(texts))
	for i, t := range texts {
		out[i] = Chip{Text: t}
	}
	return out
}

var sections = []Section{
	{
		ID:    "overview",
		Icon:  "🗺️",
		Title: "The Big Picture",
		Body: []Block{
			p("Here's the plan as it stands. Nothing is locked. This is a roadmap, not a minute-by-minute schedule. The goal is alignment, not perfection."),
			p("Read through each section. Where you have thoughts, questions, or concerns, flag them. I'll review everything and we'll sort it out together."),
			tip("Expect flexibility:", "With 8 adults, 5 kids (ages 1–11), and three parks, we'll naturally split into groups based on energy, interests, and ride heights. That's not just okay, it's the plan."),
		},
		Prompt: DefaultPrompt,
	},
	{
		ID:    "thursday-arrival",
		Icon:  "✈️",
		Title: "Thursday Night Arrival",
		Date:  "February 19",
		Body: []Block{
			p("Ben, Mary, and Ronit arrive in Orlando Thursday night. Early start on the Florida time zone."),
			chips("Ben & Mary & Fam", "Ronit"),
			p("No parks this day, just arrival and settling in."),
		},
		Prompt: DefaultPrompt,
	},
	{
		ID:    "friday-arrival",
		Icon:  "🌴",
		Title: "Friday Night Arrival",
		Date:  "February 20",
		Body: []Block{
			p("Everyone else lands Friday evening. No parks, just arrival and regrouping."),
			chips("Tal & Doug & Fam", "Joy & Plamen & Roman", "Valerie"),
			p("We'll stay at a hotel near Universal Friday night (details in Lodging section), then move to the Airbnb Saturday."),
		},
		Prompt: DefaultPrompt,
	},
	{
		ID:      "saturday-universal",
		Icon:    "🎢",
		Title:   "Saturday: Universal Studios",
		Date:    "February 21",
		Variant: "park-day universal",
		Body: []Block{
			lead("Both Universal parks", "Studios and Islands of Adventure. This is the big thrill day for those who want it."),
			chips("Everyone"),
			lead("What to expect:", ""),
			list(
				"Big rides for those who want them (Velocicoaster, Hagrid's, etc.)",
				"Family-pace groups for the younger kids",
				"Regular meetup points throughout the day",
				"Splitting up is expected and encouraged",
			),
			info("Strollers will be needed for Liam (1) and Roman (2). We'll figure out rental vs. bringing our own."),
		},
		Prompt: DefaultPrompt,
	},
	{
		ID:      "sunday-animal-kingdom",
		Icon:    "🦁",
		Title:   "Sunday: Animal Kingdom",
		Date:    "February 22",
		Variant: "park-day animal-kingdom",
		Body: []Block{
			p("A slightly gentler pace. Great for the little ones, with some solid rides for everyone else."),
			withNote(chips("Everyone (morning)"), "Joy, Plamen & Roman leave mid-afternoon"),
			lead("Highlights:", ""),
			list(
				"Kilimanjaro Safaris (best done early)",
				"Avatar Flight of Passage for thrill-seekers",
				"Lots of animal exhibits and shows for the kids",
				"More flexible groupings: some may want to linger, some may want to ride",
			),
			info("Joy, Plamen, and Roman will head back to Spring Hill mid-afternoon. We'll plan a good handoff point."),
		},
		Prompt: DefaultPrompt,
	},
	{
		ID:      "monday-hollywood-studios",
		Icon:    "🚀",
		Title:   "Monday: Hollywood Studios → Home",
		Date:    "February 23",
		Variant: "park-day hollywood-studios",
		Body: []Block{
			p("Final park day, then Tal and Doug's crew drives back to Spring Hill."),
			chips("Tal & Doug & Fam", "Ben & Mary & Fam", "Valerie", "Ronit"),
			lead("The main event:", ""),
			list(
				"Galaxy's Edge (Star Wars land) is the centerpiece",
				"Tower of Terror, Rock 'n' Roller Coaster for thrill folks",
				"Toy Story Land for the kids",
				"We'll plan departure timing based on energy and traffic",
			),
			info("Tal & Doug will drive the kids back to Spring Hill Monday evening. Others may have different departure plans."),
		},
		Prompt: DefaultPrompt,
	},
	{
		ID:    "lodging",
		Icon:  "🏠",
		Title: "Where We're Staying",
		Body: []Block{
			lead("Friday night (Feb 20):", "Hotel near Universal. Everyone arriving Friday stays here."),
			lead("Saturday & Sunday nights (Feb 21–22):", "Large Airbnb near Disney. Cost split evenly among families."),
			info("Some families may prefer a nearby hotel room instead of sharing the house. That's completely fine, just let me know your preference below."),
			lead("What's not happening:", "No Tampa airport hotel. We're keeping it simple."),
		},
		Prompt: DefaultPrompt,
		Extra:  ExtraLodging,
	},
	{
		ID:    "transportation",
		Icon:  "🚗",
		Title: "Getting Around",
		Body: []Block{
			lead("The plan:", "Uber/Lyft to and from the parks each day."),
			p("No parking logistics to coordinate, no designated drivers, no one stuck waiting for everyone else. We'll travel in smaller groups as it makes sense. Flexibility is the priority."),
			tip("", "This keeps things simple. No one is responsible for driving the whole crew, and people can leave when they need to."),
		},
		Prompt: "Any issues with this approach?",
	},
	{
		ID:    "food",
		Icon:  "🍳",
		Title: "Food Plan",
		Body: []Block{
			lead("The approach:", ""),
			list(
				"One grocery run early in the trip",
				"Breakfast and snacks at the house each morning",
				"Pack at least one meal per park day (saves money and time)",
				"Mostly quick-service food at the parks when we buy there",
			),
			p("No fancy sit-down reservations unless someone really wants to coordinate one. The goal is low-friction fuel, not dining experiences."),
		},
		Prompt: DefaultPrompt,
		Extra:  ExtraFood,
	},
}

// LodgingOption is one choice in the lodging preference select.
type LodgingOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// LodgingOptions lists the lodging select choices in display order.
func LodgingOptions() []LodgingOption {
	return []LodgingOption{
		{Value: "house", Label: "Stay at the shared house"},
		{Value: "nearby-hotel", Label: "Prefer a nearby hotel"},
		{Value: "no-preference", Label: "No strong preference"},
	}
}
