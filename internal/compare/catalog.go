package compare

// Platforms is the closed set of retailers price entries are generated for.
var Platforms = []string{
	"Amazon",
	"Flipkart",
	"Myntra",
	"AJIO",
	"Meesho",
	"Tata Cliq",
	"Croma",
}

var Categories = []string{
	"Mobiles",
	"Headphones",
	"Laptops",
	"Shoes",
	"Fashion",
	"Appliances",
	"TVs",
	"Wearables",
}

var Brands = []string{
	"Apple", "Samsung", "Sony", "Dell", "HP", "Lenovo", "Asus",
	"Nike", "Adidas", "Puma", "Boat", "OnePlus", "Xiaomi",
}

var SampleImages = []string{
	"https://images.unsplash.com/photo-1511707171634-5f897ff02aa9?w=800",
	"https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=800",
	"https://images.unsplash.com/photo-1512496015851-a90fb38ba796?w=800",
}

var DeliveryOptions = []string{"2-3 days", "Next day", "Standard (3-5 days)"}

const Currency = "INR"
