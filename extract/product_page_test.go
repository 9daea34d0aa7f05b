package extract

import "testing"

func TestExtractProductPageFromMetadata(t *testing.T) {
	markup := `<html><head>
<meta property="og:type" content="product">
<meta property="og:title" content="Deluxe Widget">
<meta property="og:image" content="https://cdn.example.test/deluxe.webp">
<meta property="product:original_price:amount" content="24.99">
<meta property="product:price:amount" content="19.99">
<meta itemprop="ratingValue" content="4.8">
</head><body>
<p>1.2k sold this month</p>
</body></html>`
	doc := mustDoc(t, "https://shop.example.test/product/42", markup)

	product := ExtractProductPage(doc)
	if product.Title != "Deluxe Widget" {
		t.Fatalf("title = %q", product.Title)
	}
	if product.OriginPrice == nil || *product.OriginPrice != "24.99" {
		t.Fatalf("origin price = %v", product.OriginPrice)
	}
	if product.SalePrice == nil || *product.SalePrice != "19.99" {
		t.Fatalf("sale price = %v", product.SalePrice)
	}
	if product.Score == nil || *product.Score != "4.8" {
		t.Fatalf("score = %v", product.Score)
	}
	if product.Sold == nil || *product.Sold != "1.2k sold this month" {
		t.Fatalf("sold = %v", product.Sold)
	}
	if product.Img == nil || *product.Img != "https://cdn.example.test/deluxe.webp" {
		t.Fatalf("img = %v", product.Img)
	}
	if product.ProductLink != "https://shop.example.test/product/42" {
		t.Fatalf("link = %q, want the page URL", product.ProductLink)
	}
}

func TestExtractProductPageTextFallbacks(t *testing.T) {
	markup := `<html><head><title>Fallback Widget | TikTok Shop Product</title></head>
<body>
<h1>Fallback Widget</h1>
<span>now only $7.99</span>
<span>★ 4.2 (88)</span>
<img src="https://cdn.example.test/fallback.webp">
</body></html>`
	doc := mustDoc(t, "https://shop.example.test/product/43", markup)

	product := ExtractProductPage(doc)
	if product.Title != "Fallback Widget" {
		t.Fatalf("title = %q, want h1 fallback", product.Title)
	}
	if product.SalePrice == nil || *product.SalePrice != "now only $7.99" {
		t.Fatalf("sale price = %v, want first currency-bearing text", product.SalePrice)
	}
	if product.OriginPrice != nil {
		t.Fatalf("origin price = %v, want nil without metadata", *product.OriginPrice)
	}
	if product.Score == nil || *product.Score != "★ 4.2 (88)" {
		t.Fatalf("score = %v, want star-glyph text fallback", product.Score)
	}
	if product.Img == nil || *product.Img != "https://cdn.example.test/fallback.webp" {
		t.Fatalf("img = %v, want first image element", product.Img)
	}
}

func TestExtractProductPageEmitsDespiteMissingTitle(t *testing.T) {
	doc := mustDoc(t, "https://shop.example.test/product/44", `<html><body><span>$1.00</span></body></html>`)

	product := ExtractProductPage(doc)
	if product == nil {
		t.Fatalf("record must still be emitted with an empty title")
	}
	if product.Title != "" {
		t.Fatalf("title = %q, want empty", product.Title)
	}
	if product.SalePrice == nil || *product.SalePrice != "$1.00" {
		t.Fatalf("sale price = %v", product.SalePrice)
	}
}
