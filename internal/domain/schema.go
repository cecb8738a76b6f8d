package domain

// FieldType is the declared value type of a unified schema field
type FieldType int

const (
	FieldString FieldType = iota
	FieldNumber
	FieldBoolean
	FieldArray
	FieldObject
)

// String returns the lowercase type name
func (t FieldType) String() string {
	switch t {
	case FieldString:
		return "string"
	case FieldNumber:
		return "number"
	case FieldBoolean:
		return "boolean"
	case FieldArray:
		return "array"
	case FieldObject:
		return "object"
	default:
		return "unknown"
	}
}

// FieldDescriptor describes one field of the unified product schema.
// Nil bounds are unbounded, MaxLength 0 means no limit.
type FieldDescriptor struct {
	Name      string
	Type      FieldType
	Required  bool
	MaxLength int
	Min       *float64
	Max       *float64
	Default   any
}

func bound(v float64) *float64 { return &v }

// UnifiedProductSchema is the ordered target schema. Fields are resolved in this order.
var UnifiedProductSchema = []FieldDescriptor{
	{Name: "external_id", Type: FieldString, Required: true, MaxLength: 255},
	{Name: "url", Type: FieldString, Required: true, MaxLength: 2048},
	{Name: "platform", Type: FieldString, Required: true, Default: PlatformGeneric},
	{Name: "title", Type: FieldString, Required: true, MaxLength: 500},
	{Name: "description", Type: FieldString, MaxLength: 50000},
	{Name: "price", Type: FieldNumber, Required: true, Min: bound(0)},
	{Name: "compare_at_price", Type: FieldNumber, Min: bound(0)},
	{Name: "currency", Type: FieldString, MaxLength: 3, Default: "EUR"},
	{Name: "sku", Type: FieldString, MaxLength: 100},
	{Name: "brand", Type: FieldString, MaxLength: 200},
	{Name: "category", Type: FieldString, MaxLength: 200},
	{Name: "stock", Type: FieldNumber, Min: bound(0)},
	{Name: "rating", Type: FieldNumber, Min: bound(0), Max: bound(5)},
	{Name: "reviews_count", Type: FieldNumber, Min: bound(0)},
	{Name: "sold_count", Type: FieldNumber, Min: bound(0)},
	{Name: "weight", Type: FieldNumber, Min: bound(0)},
	{Name: "available", Type: FieldBoolean},
	{Name: "images", Type: FieldArray},
	{Name: "videos", Type: FieldArray},
	{Name: "variants", Type: FieldArray},
	{Name: "reviews", Type: FieldArray},
	{Name: "tags", Type: FieldArray},
	{Name: "specifications", Type: FieldObject},
	{Name: "shipping", Type: FieldObject},
	{Name: "extracted_at", Type: FieldString, Required: true},
}

// AliasTable maps a unified field name to its ordered candidate source names.
// Candidates containing a dot are nested paths (e.g. "variants.0.price").
type AliasTable map[string][]string

// PlatformAliases holds the per-platform alias tables
var PlatformAliases = map[string]AliasTable{
	PlatformAliExpress: {
		"title":            {"productTitle", "subject", "name"},
		"description":      {"descriptionHtml", "detail", "description.html"},
		"price":            {"currentPrice", "salePrice", "price.value", "prices.0.value", "skuList.0.price"},
		"compare_at_price": {"originalPrice", "oldPrice", "price.original"},
		"currency":         {"currencyCode", "price.currency"},
		"sku":              {"productId", "itemId"},
		"brand":            {"storeName", "store.name", "brandName"},
		"category":         {"categoryName", "category.name"},
		"stock":            {"quantity", "totalAvailQuantity", "inventory"},
		"rating":           {"averageStar", "evaluation.starRating", "starRating"},
		"reviews_count":    {"totalReviews", "feedbackCount", "evaluation.totalCount"},
		"sold_count":       {"orders", "tradeCount", "soldCount"},
		"images":           {"imageUrls", "imagePathList", "imageList"},
		"videos":           {"videoUrls", "videoList", "video"},
		"variants":         {"skuList", "skus", "skuInfos"},
		"reviews":          {"feedbacks", "reviewList"},
		"shipping":         {"shippingInfo", "freight"},
		"specifications":   {"specs", "props"},
	},
	PlatformAmazon: {
		"title":            {"productTitle", "name"},
		"description":      {"productDescription", "featureBullets", "about"},
		"price":            {"priceAmount", "price.value", "buyingPrice", "offers.0.price"},
		"compare_at_price": {"listPrice", "wasPrice", "price.list"},
		"currency":         {"currencyCode", "price.currency"},
		"sku":              {"asin", "ASIN"},
		"brand":            {"brandName", "byline", "manufacturer"},
		"category":         {"categoryPath", "breadcrumbs.0", "productGroup"},
		"stock":            {"availableQuantity", "quantity"},
		"rating":           {"stars", "averageRating", "rating.value"},
		"reviews_count":    {"ratingsCount", "reviewCount", "totalReviews"},
		"images":           {"imageUrls", "imageGallery", "highResImages"},
		"videos":           {"videoUrls", "videoList"},
		"variants":         {"variations", "variantList"},
		"reviews":          {"topReviews", "customerReviews"},
		"specifications":   {"productDetails", "technicalDetails"},
	},
	PlatformShopify: {
		"title":            {"name"},
		"description":      {"body_html", "bodyHtml", "descriptionHtml"},
		"price":            {"variants.0.price", "priceRange.minVariantPrice.amount", "price_min"},
		"compare_at_price": {"variants.0.compare_at_price", "compare_at_price_min"},
		"currency":         {"priceRange.minVariantPrice.currencyCode", "presentment_currency"},
		"sku":              {"variants.0.sku", "handle"},
		"brand":            {"vendor"},
		"category":         {"product_type", "productType"},
		"stock":            {"variants.0.inventory_quantity", "totalInventory"},
		"images":           {"images", "media"},
		"variants":         {"variants"},
		"tags":             {"tags"},
		"specifications":   {"metafields"},
	},
	PlatformTemu: {
		"title":            {"goodsName", "goods_name", "name"},
		"description":      {"goodsDesc", "goods_desc"},
		"price":            {"salePrice", "priceInfo.price", "minPrice", "price.amount"},
		"compare_at_price": {"marketPrice", "priceInfo.marketPrice", "originalPrice"},
		"currency":         {"currency", "priceInfo.currency"},
		"sku":              {"goodsId", "goods_id"},
		"brand":            {"mallName", "mall_name", "storeName"},
		"category":         {"catName", "cat_name"},
		"stock":            {"stock", "inventory"},
		"rating":           {"goodsScore", "score"},
		"reviews_count":    {"reviewNum", "commentNum"},
		"sold_count":       {"salesNum", "soldQuantity"},
		"images":           {"galleryList", "gallery", "imageList"},
		"videos":           {"videoList", "video"},
		"variants":         {"skuList", "skus"},
		"reviews":          {"reviewList", "comments"},
	},
	PlatformEbay: {
		"title":            {"itemTitle", "name"},
		"description":      {"itemDescription", "shortDescription"},
		"price":            {"currentPrice", "price.value", "convertedCurrentPrice.value"},
		"compare_at_price": {"originalRetailPrice", "marketingPrice.originalPrice.value"},
		"currency":         {"price.currency", "currentPrice.currency"},
		"sku":              {"itemId", "legacyItemId"},
		"brand":            {"brandName", "itemSpecifics.Brand"},
		"category":         {"categoryPath", "primaryCategory.categoryName"},
		"stock":            {"quantityAvailable", "estimatedAvailabilities.0.estimatedAvailableQuantity"},
		"rating":           {"sellerRating", "primaryProductReviewRating.averageRating"},
		"reviews_count":    {"primaryProductReviewRating.reviewCount"},
		"sold_count":       {"quantitySold"},
		"images":           {"pictureUrls", "additionalImages", "image.imageUrl"},
		"variants":         {"variations", "itemVariations"},
		"reviews":          {"productReviews"},
		"shipping":         {"shippingOptions"},
		"specifications":   {"itemSpecifics", "localizedAspects"},
	},
}

// AliasesFor returns the alias table for a platform, or an empty table in generic mode
func AliasesFor(platform string) AliasTable {
	if table, ok := PlatformAliases[platform]; ok {
		return table
	}
	return AliasTable{}
}
