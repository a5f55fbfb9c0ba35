package content

// Link is a labelled site-relative href.
type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type Feature struct {
	ImgSrc     string `json:"imgSrc"`
	Heading    string `json:"heading"`
	Subheading string `json:"subheading"`
}

type Chef struct {
	Profession string `json:"profession"`
	Name       string `json:"name"`
	ImgSrc     string `json:"imgSrc"`
}

type GalleryImage struct {
	Src   string `json:"src"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

type MenuItem struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

type FooterSection struct {
	Section string `json:"section"`
	Links   []Link `json:"links"`
}

type Testimonial struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Image string `json:"image"`
	Quote string `json:"quote"`
}

// TermsSection is one numbered clause of the terms and conditions.
type TermsSection struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Site is the payload served by the content endpoint. Field names match the
// keys the site frontend reads.
type Site struct {
	HeaderData        []Link          `json:"HeaderData"`
	FeaturesData      []Feature       `json:"FeaturesData"`
	ExpertChiefData   []Chef          `json:"ExpertChiefData"`
	GalleryImagesData []GalleryImage  `json:"GalleryImagesData"`
	FullMenuData      []MenuItem      `json:"FullMenuData"`
	FooterLinkData    []FooterSection `json:"FooterLinkData"`
	Testimonials      []Testimonial   `json:"Testimonials"`
	Terms             []TermsSection  `json:"Terms"`
	ContactEmail      string          `json:"ContactEmail"`
}

// ContactEmail is the public support address shown in the terms.
const ContactEmail = "info@vegthaliclub.com"

// Default returns a fresh copy of the site content. Callers may modify it.
func Default() Site {
	return Site{
		HeaderData:        header(),
		FeaturesData:      features(),
		ExpertChiefData:   chefs(),
		GalleryImagesData: gallery(),
		FullMenuData:      fullMenu(),
		FooterLinkData:    footer(),
		Testimonials:      testimonials(),
		Terms:             terms(),
		ContactEmail:      ContactEmail,
	}
}

func header() []Link {
	return []Link{
		{Label: "Menu", Href: "/#menu"},
		{Label: "Contact Us", Href: "/#reserve"},
	}
}

func features() []Feature {
	return []Feature{
		{
			ImgSrc:     "/images/Features/featureOne.svg",
			Heading:    "Authentic Indian Flavors",
			Subheading: "Experience the taste of India with homestyle recipes and aromatic spices made fresh daily.",
		},
		{
			ImgSrc:     "/images/Features/featureTwo.svg",
			Heading:    "Freshly Prepared in Our Cloud Kitchen",
			Subheading: "Every dish is cooked to order in our hygienic cloud kitchen, ensuring quality, freshness, and consistency.",
		},
		{
			ImgSrc:     "/images/Features/featureThree.svg",
			Heading:    "Customized Catering Packages",
			Subheading: "From corporate lunches to festive gatherings, our flexible menus fit every event and budget.",
		},
		{
			ImgSrc:     "/images/Features/featureFour.svg",
			Heading:    "Seamless Ordering & Delivery",
			Subheading: "Order effortlessly through our online platform and enjoy on-time delivery, hot and fresh to your doorstep.",
		},
	}
}

func chefs() []Chef {
	return []Chef{
		{Profession: "Senior Chef", Name: "Marco Benton", ImgSrc: "/images/Expert/boyone.png"},
		{Profession: "Junior Chef", Name: "Elena Rivera", ImgSrc: "/images/Expert/girl.png"},
		{Profession: "Junior Chef", Name: "John Doe", ImgSrc: "/images/Expert/boytwo.png"},
	}
}

func gallery() []GalleryImage {
	return []GalleryImage{
		{Src: "/images/Gallery/foodone.webp", Name: "Caesar Salad(187 Kcal)", Price: 35},
		{Src: "/images/Gallery/foodtwo.webp", Name: "Christmas salad(118 Kcal)", Price: 17},
		{Src: "/images/Gallery/foodthree.webp", Name: "Sauteed mushrooms with pumpkin bowl(238 kcal)", Price: 45},
		{Src: "/images/Gallery/foodfour.webp", Name: "BBQ Chicken Feast Pizza(272 kcal)", Price: 27},
	}
}

func fullMenu() []MenuItem {
	return []MenuItem{
		{Name: "Grilled Salmon", Price: "$18.99", Description: "Served with lemon butter sauce and grilled vegetables."},
		{Name: "Caesar Salad", Price: "$9.99", Description: "Crisp romaine with parmesan, croutons, and Caesar dressing."},
		{Name: "Margherita Pizza", Price: "$13.49", Description: "Classic pizza with tomato, mozzarella, and fresh basil."},
		{Name: "Tomato Basil Soup", Price: "$6.99", Description: "Creamy tomato soup with a hint of garlic and fresh basil."},
		{Name: "Chocolate Lava Cake", Price: "$7.99", Description: "Warm chocolate cake with a molten center served with vanilla ice cream."},
		{Name: "Spaghetti Carbonara", Price: "$15.25", Description: "Spaghetti tossed with eggs, pancetta, parmesan, and black pepper."},
		{Name: "Tiramisu", Price: "$8.50", Description: "Layered espresso-soaked ladyfingers with mascarpone and cocoa."},
	}
}

func footer() []FooterSection {
	return []FooterSection{
		{
			Section: "Company",
			Links: []Link{
				{Label: "Home", Href: "/"},
				{Label: "About Us", Href: "/#aboutus"},
				{Label: "Menu", Href: "/#menu"},
			},
		},
		{
			Section: "Support",
			Links: []Link{
				{Label: "Help/FAQ", Href: "/"},
				{Label: "Press", Href: "/"},
				{Label: "Affiliates", Href: "/"},
				{Label: "Hotel owners", Href: "/"},
				{Label: "Partners", Href: "/"},
			},
		},
	}
}

func testimonials() []Testimonial {
	return []Testimonial{
		{Name: "Aarav Mehta", Role: "Toronto", Image: "/images/avatars/user1.webp",
			Quote: "Veg Thali Club made our family wedding unforgettable! Every dish was bursting with authentic flavour and beautifully presented. Guests couldn't stop talking about the food!"},
		{Name: "Priya Sharma", Role: "Mississauga", Image: "/images/avatars/user2.webp",
			Quote: "Absolutely phenomenal catering service. From appetizers to desserts, every bite reflected pure passion and precision. Their team handled everything seamlessly!"},
		{Name: "Rohit Patel", Role: "Brampton", Image: "/images/avatars/user3.webp",
			Quote: "We booked Veg Thali Club for a corporate event and it was a hit! Professional setup, delicious vegetarian spread, and impeccable presentation. Highly recommend!"},
		{Name: "Ananya Gupta", Role: "Scarborough", Image: "/images/avatars/user4.webp",
			Quote: "Their catering turned our small gathering into a feast. The food was fresh, flavourful, and served with genuine warmth. The paneer dishes were everyone's favourite!"},
		{Name: "Rajesh Verma", Role: "Etobicoke", Image: "/images/avatars/user5.webp",
			Quote: "Top notch service from start to finish. The attention to detail and the taste reminded me of home cooked meals with a gourmet touch."},
		{Name: "Sanya Khan", Role: "Vaughan", Image: "/images/avatars/user6.webp",
			Quote: "We celebrated our anniversary with Veg Thali Club's catering. The thali concept was elegant, the staff were courteous, and everything went off without a hitch."},
		{Name: "Deepak Singh", Role: "Oakville", Image: "/images/avatars/user7.webp",
			Quote: "Incredible vegetarian spread! The variety, the taste, the service: everything exceeded our expectations. Perfect for our festive dinner event."},
		{Name: "Emily Carter", Role: "Downtown Toronto", Image: "https://randomuser.me/api/portraits/women/44.jpg",
			Quote: "We ordered from Veg Thali Club for our office lunch and it was a hit! The team loved the freshness and variety of dishes. We'll definitely order again soon."},
		{Name: "Michael Johnson", Role: "North York", Image: "https://randomuser.me/api/portraits/men/32.jpg",
			Quote: "I was amazed by how well organized the catering was. The delivery was punctual, the packaging perfect, and the flavours outstanding. Highly reliable service!"},
		{Name: "Sophie Miller", Role: "Markham", Image: "https://randomuser.me/api/portraits/women/68.jpg",
			Quote: "Such a wonderful experience! Every dish tasted homemade yet professional. The Veg Thali Club team made our birthday celebration so special."},
		{Name: "David Wilson", Role: "Richmond Hill", Image: "https://randomuser.me/api/portraits/men/15.jpg",
			Quote: "As someone who's not vegetarian, I was surprised at how flavourful and satisfying every item was. Veg Thali Club changed my view on vegetarian food!"},
		{Name: "Olivia Brown", Role: "Whitby", Image: "https://randomuser.me/api/portraits/women/22.jpg",
			Quote: "They made our family get together stress free. The coordination, timing, and the quality of every thali were impeccable. Highly recommend for any event!"},
		{Name: "James Anderson", Role: "Burlington", Image: "https://randomuser.me/api/portraits/men/71.jpg",
			Quote: "Fantastic service! Everything from menu planning to delivery was seamless. The flavours were rich and authentic, easily one of the best catering experiences in the GTA."},
	}
}

func terms() []TermsSection {
	return []TermsSection{
		{Heading: "1. About Us", Body: "Welcome to Veg Thali Club. By using our website and services, you agree to comply with and be bound by the following Terms and Conditions. Veg Thali Club is a vegetarian food delivery and catering facilitator powered by a network of trusted cloud kitchens and local catering partners. We ensure every meal follows our proprietary recipes and quality standards."},
		{Heading: "2. Food Responsibility", Body: "As we rely on third-party kitchens, we cannot guarantee or take responsibility for the quality, taste, freshness, or preparation process of food. Any issues regarding food quality should be reported to us promptly, and we will work with our partner vendors to resolve the matter."},
		{Heading: "3. Allergies & Dietary Restrictions", Body: "Customers are required to inform us of any allergies, dietary restrictions, or food sensitivities before placing an order. Veg Thali Club and its partners are not liable for allergic reactions or health issues arising from failure to disclose such information."},
		{Heading: "4. Orders & Payments", Body: "Orders once confirmed cannot be canceled or modified later than a 24-hour window. Payments must be completed in full before delivery. In case of payment failure or disputes, Veg Thali Club reserves the right to withhold delivery until the issue is resolved."},
		{Heading: "5. Delivery", Body: "We strive to deliver all orders within the estimated time. However, delays may occur due to traffic, weather, or vendor constraints. Veg Thali Club shall not be liable for delays beyond our reasonable control."},
		{Heading: "6. Refunds & Cancellations", Body: "Refunds will only be issued in cases of incorrect or undelivered orders verified by our support team. Taste, portion size, or subjective dissatisfaction will not qualify for a refund."},
		{Heading: "7. Limitation of Liability", Body: "Veg Thali Club, its affiliates, employees, or partners shall not be held liable for any direct or indirect damages, including but not limited to illness, injury, or losses arising from food consumption or delayed delivery."},
		{Heading: "8. Third-Party Vendors", Body: "Food preparation and handling are done by third-party vendors. By placing an order, you acknowledge that Veg Thali Club is not responsible for vendor actions, negligence, or hygiene practices."},
		{Heading: "9. Governing Law", Body: "These Terms shall be governed by and construed in accordance with the laws of the Province of Ontario, Canada. Any disputes shall be subject to the exclusive jurisdiction of the courts in Toronto, Ontario."},
		{Heading: "10. Contact", Body: "For questions, concerns, or complaints, please contact us at " + ContactEmail + "."},
	}
}
