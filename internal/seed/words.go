package seed

var (
	firstNames = []string{
		"Anna", "Boris", "Clara", "Daniel", "Elena", "Felix", "Greta", "Hugo", "Irina", "Jonas",
		"Karina", "Leon", "Maria", "Nikita", "Olga", "Pavel", "Quentin", "Rosa", "Sergey", "Tatiana",
		"Ulrich", "Vera", "Walter", "Xenia", "Yuri", "Zoe",
	}
	lastNames = []string{
		"Abbott", "Baranov", "Carter", "Dubois", "Egorova", "Fischer", "Garcia", "Horvat", "Ivanova",
		"Jensen", "Kowalski", "Lebedev", "Moreau", "Novak", "Orlova", "Petrov", "Quinn", "Rossi",
		"Smirnova", "Tanaka", "Urban", "Volkov", "Weber", "Young", "Zaitsev",
	}
	subjects = []string{
		"algebra", "geometry", "physics", "chemistry", "biology", "history", "literature", "music",
		"drawing", "programming", "networks", "databases", "statistics", "economics", "philosophy",
		"rhetoric", "astronomy", "geography", "ecology", "robotics",
	}
	levels = []string{
		"Introduction to", "Foundations of", "Applied", "Advanced", "Workshop on", "Seminar on",
		"Practical", "Modern", "Elements of", "Topics in",
	}
	activityKinds = []string{
		"Quiz", "Lab", "Essay", "Presentation", "Project", "Exam", "Field trip", "Reading", "Discussion", "Homework",
	}
	fillers = []string{
		"covers the core ideas", "with weekly practice", "taught in small groups", "ends with a final review",
		"includes guest lectures", "built around case studies", "with hands-on exercises", "for curious minds",
	}
)
