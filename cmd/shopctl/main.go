// shopctl is a CLI for driving the storefront gateway.
// Each command performs a single operation, making it composable for scripts.
//
// Commands:
//
//	shopctl login -gateway URL -email ADDR -password PW
//	shopctl products [-search QUERY] [-category NAME]
//	shopctl cart show|add|rm|set|clear [...]
//	shopctl checkout
//
// Examples:
//
//	shopctl login -email shopper@example.com -password secret
//	shopctl cart add -product jeans-1 -qty 2
//	LINK=$(shopctl checkout -q)
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

var client = &http.Client{Timeout: 30 * time.Second}

// Global flags (apply to all commands)
var (
	gatewayURL string
	quiet      bool
	verbose    bool
)

// ANSI color codes
var (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		disableColors()
	}
}

func disableColors() {
	colorReset, colorRed, colorGreen = "", "", ""
	colorYellow, colorCyan, colorGray, colorBold = "", "", "", ""
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "login":
		runLogin(args)
	case "register":
		runRegister(args)
	case "logout":
		runLogout(args)
	case "session":
		runSession(args)
	case "products":
		runProducts(args)
	case "product":
		runProduct(args)
	case "cart":
		runCart(args)
	case "checkout":
		runCheckout(args)
	case "orders":
		runOrders(args)
	case "chat":
		runChat(args)
	case "-h", "-help", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `shopctl - storefront gateway CLI

Usage:
  shopctl <command> [options]

Commands:
  login     Log in with email and password
  register  Create an account (logs in on success)
  logout    Clear the current session
  session   Show the current session state
  products  List or search catalog products
  product   Show one product by ID
  cart      Cart operations: show, add, rm, set, clear
  checkout  Start a checkout, prints the payment link
  orders    Show order history
  chat      Ask the product recommender

Examples:
  shopctl login -email shopper@example.com -password secret
  shopctl products -search jeans
  shopctl cart add -product jeans-1 -qty 2
  shopctl cart show
  LINK=$(shopctl checkout -q)

Run 'shopctl <command> -h' for command-specific options.
`)
}

// globalFlags registers the flags shared by every command.
func globalFlags(fs *flag.FlagSet) {
	fs.StringVar(&gatewayURL, "gateway", envOrDefault("SHOPCTL_GATEWAY", "http://localhost:8080"), "gateway base URL")
	fs.BoolVar(&quiet, "q", false, "quiet mode: print only the primary result")
	fs.BoolVar(&verbose, "v", false, "verbose mode: print requests and raw responses")
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// =============================================================================
// AUTH COMMANDS
// =============================================================================

func runLogin(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	globalFlags(fs)
	email := fs.String("email", "", "account email (required)")
	password := fs.String("password", "", "account password (required)")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fatal("login requires -email and -password")
	}

	resp, err := doRequest(http.MethodPost, "/auth/login", map[string]string{
		"email":    *email,
		"password": *password,
	})
	if err != nil {
		fatal("login failed: %v", err)
	}

	user, _ := resp["user"].(map[string]interface{})
	if quiet {
		fmt.Println(stringField(user, "id"))
		return
	}
	printSuccess("logged in as %s (%s)", stringField(user, "email"), stringField(user, "role"))
}

func runRegister(args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	globalFlags(fs)
	email := fs.String("email", "", "account email (required)")
	password := fs.String("password", "", "account password (required)")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fatal("register requires -email and -password")
	}

	resp, err := doRequest(http.MethodPost, "/auth/register", map[string]string{
		"email":    *email,
		"password": *password,
	})
	if err != nil {
		fatal("register failed: %v", err)
	}

	user, _ := resp["user"].(map[string]interface{})
	if quiet {
		fmt.Println(stringField(user, "id"))
		return
	}
	printSuccess("registered and logged in as %s", stringField(user, "email"))
}

func runLogout(args []string) {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	globalFlags(fs)
	fs.Parse(args)

	if _, err := doRequest(http.MethodPost, "/auth/logout", nil); err != nil {
		fatal("logout failed: %v", err)
	}
	if !quiet {
		printSuccess("logged out")
	}
}

func runSession(args []string) {
	fs := flag.NewFlagSet("session", flag.ExitOnError)
	globalFlags(fs)
	fs.Parse(args)

	resp, err := doRequest(http.MethodGet, "/auth/session", nil)
	if err != nil {
		fatal("session query failed: %v", err)
	}

	authed, _ := resp["authenticated"].(bool)
	if quiet {
		fmt.Println(strconv.FormatBool(authed))
		return
	}
	if !authed {
		printInfo("not logged in")
		return
	}
	user, _ := resp["user"].(map[string]interface{})
	printSuccess("logged in as %s (%s)", stringField(user, "email"), stringField(user, "role"))
	if verifying, _ := resp["verifying"].(bool); verifying {
		printWarning("restored session still verifying with backend")
	}
}

// =============================================================================
// CATALOG COMMANDS
// =============================================================================

func runProducts(args []string) {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	globalFlags(fs)
	search := fs.String("search", "", "free-text search")
	category := fs.String("category", "", "filter by category (jeans, tshirt, tv, sofa)")
	featured := fs.Bool("featured", false, "show the featured mix instead")
	fs.Parse(args)

	path := "/products"
	switch {
	case *featured:
		path = "/products/featured"
	case *category != "":
		path = "/products/category/" + url.PathEscape(*category)
	case *search != "":
		path = "/products?search=" + url.QueryEscape(*search)
	}

	resp, err := doRequest(http.MethodGet, path, nil)
	if err != nil {
		fatal("listing products failed: %v", err)
	}

	products, _ := resp["products"].([]interface{})
	for _, raw := range products {
		p, _ := raw.(map[string]interface{})
		if quiet {
			fmt.Println(stringField(p, "id"))
			continue
		}
		fmt.Printf("%s%-12s%s %-32s %s%s%s\n",
			colorCyan, stringField(p, "id"), colorReset,
			stringField(p, "name"),
			colorGreen, formatPrice(p["price"]), colorReset,
		)
	}
	if !quiet {
		printInfo("%d products", len(products))
	}
}

func runProduct(args []string) {
	fs := flag.NewFlagSet("product", flag.ExitOnError)
	globalFlags(fs)
	id := fs.String("id", "", "product ID (required)")
	fs.Parse(args)

	if *id == "" {
		fatal("product requires -id")
	}

	resp, err := doRequest(http.MethodGet, "/products/"+url.PathEscape(*id), nil)
	if err != nil {
		fatal("fetching product failed: %v", err)
	}

	data, _ := json.MarshalIndent(resp["product"], "", "  ")
	fmt.Println(string(data))
}

// =============================================================================
// CART COMMANDS
// =============================================================================

func runCart(args []string) {
	if len(args) < 1 {
		fatal("cart requires a subcommand: show, add, rm, set, clear")
	}
	sub := args[0]
	args = args[1:]

	switch sub {
	case "show":
		runCartShow(args)
	case "add":
		runCartAdd(args)
	case "rm":
		runCartRemove(args)
	case "set":
		runCartSet(args)
	case "clear":
		runCartClear(args)
	default:
		fatal("unknown cart subcommand: %s", sub)
	}
}

func runCartShow(args []string) {
	fs := flag.NewFlagSet("cart show", flag.ExitOnError)
	globalFlags(fs)
	fs.Parse(args)

	resp, err := doRequest(http.MethodGet, "/cart", nil)
	if err != nil {
		fatal("fetching cart failed: %v", err)
	}
	printCart(resp)
}

func runCartAdd(args []string) {
	fs := flag.NewFlagSet("cart add", flag.ExitOnError)
	globalFlags(fs)
	product := fs.String("product", "", "product ID (required)")
	qty := fs.Int("qty", 1, "quantity to add")
	fs.Parse(args)

	if *product == "" {
		fatal("cart add requires -product")
	}

	resp, err := doRequest(http.MethodPost, "/cart/items", map[string]interface{}{
		"productId": *product,
		"quantity":  *qty,
	})
	if err != nil {
		fatal("adding to cart failed: %v", err)
	}
	printCart(resp)
}

func runCartRemove(args []string) {
	fs := flag.NewFlagSet("cart rm", flag.ExitOnError)
	globalFlags(fs)
	product := fs.String("product", "", "product ID (required)")
	fs.Parse(args)

	if *product == "" {
		fatal("cart rm requires -product")
	}

	resp, err := doRequest(http.MethodDelete, "/cart/items/"+url.PathEscape(*product), nil)
	if err != nil {
		fatal("removing from cart failed: %v", err)
	}
	printCart(resp)
}

func runCartSet(args []string) {
	fs := flag.NewFlagSet("cart set", flag.ExitOnError)
	globalFlags(fs)
	product := fs.String("product", "", "product ID (required)")
	qty := fs.Int("qty", -1, "absolute quantity (required, 0 removes)")
	fs.Parse(args)

	if *product == "" || *qty < 0 {
		fatal("cart set requires -product and -qty")
	}

	resp, err := doRequest(http.MethodPut, "/cart/items/"+url.PathEscape(*product), map[string]int{
		"quantity": *qty,
	})
	if err != nil {
		fatal("updating cart failed: %v", err)
	}
	printCart(resp)
}

func runCartClear(args []string) {
	fs := flag.NewFlagSet("cart clear", flag.ExitOnError)
	globalFlags(fs)
	fs.Parse(args)

	resp, err := doRequest(http.MethodDelete, "/cart", nil)
	if err != nil {
		fatal("clearing cart failed: %v", err)
	}
	if !quiet {
		printSuccess("cart cleared")
	}
	printCart(resp)
}

func printCart(resp map[string]interface{}) {
	items, _ := resp["items"].([]interface{})
	if quiet {
		fmt.Println(len(items))
		return
	}
	if len(items) == 0 {
		printInfo("cart is empty")
		return
	}
	for _, raw := range items {
		item, _ := raw.(map[string]interface{})
		qty, _ := item["quantity"].(float64)
		fmt.Printf("%s%-12s%s %-32s x%-3d %s%s%s\n",
			colorCyan, stringField(item, "productId"), colorReset,
			stringField(item, "name"),
			int(qty),
			colorGreen, formatPrice(item["price"]), colorReset,
		)
	}
	fmt.Printf("%stotal: %s (%v items)%s\n",
		colorBold, formatPrice(resp["totalPrice"]), resp["totalItems"], colorReset)
}

// =============================================================================
// CHECKOUT / ORDERS / CHAT
// =============================================================================

func runCheckout(args []string) {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	globalFlags(fs)
	fs.Parse(args)

	resp, err := doRequest(http.MethodPost, "/checkout", nil)
	if err != nil {
		fatal("checkout failed: %v", err)
	}

	link := stringField(resp, "paymentLink")
	if quiet {
		fmt.Println(link)
		return
	}
	printSuccess("payment page ready")
	fmt.Printf("%s%s%s\n", colorCyan, link, colorReset)
	printInfo("open the link in a browser to complete payment")
}

func runOrders(args []string) {
	fs := flag.NewFlagSet("orders", flag.ExitOnError)
	globalFlags(fs)
	fs.Parse(args)

	resp, err := doRequest(http.MethodGet, "/orders", nil)
	if err != nil {
		fatal("fetching orders failed: %v", err)
	}

	orders, _ := resp["orders"].([]interface{})
	if quiet {
		fmt.Println(len(orders))
		return
	}
	if len(orders) == 0 {
		printInfo("no orders yet")
		return
	}
	for _, raw := range orders {
		o, _ := raw.(map[string]interface{})
		fmt.Printf("%s%-24s%s %-12s %s%s%s\n",
			colorCyan, stringField(o, "id"), colorReset,
			stringField(o, "status"),
			colorGreen, formatPrice(o["totalAmount"]), colorReset,
		)
	}
}

func runChat(args []string) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	globalFlags(fs)
	fs.Parse(args)

	message := ""
	if fs.NArg() > 0 {
		message = fs.Arg(0)
	}
	if message == "" {
		fatal("chat requires a message argument, e.g. shopctl chat \"show me jeans\"")
	}

	resp, err := doRequest(http.MethodPost, "/chat", map[string]string{"message": message})
	if err != nil {
		fatal("chat failed: %v", err)
	}

	fmt.Println(stringField(resp, "response"))
	recs, _ := resp["recommendedProducts"].([]interface{})
	if len(recs) > 0 && !quiet {
		printInfo("recommended:")
		for _, raw := range recs {
			p, _ := raw.(map[string]interface{})
			fmt.Printf("  %s%-12s%s %s\n",
				colorCyan, stringField(p, "id"), colorReset, stringField(p, "name"))
		}
	}
}

// =============================================================================
// HTTP / OUTPUT HELPERS
// =============================================================================

// doRequest sends a JSON request to the gateway and decodes the response.
// Error responses are unwrapped into readable "CODE: message" errors.
func doRequest(method, path string, body interface{}) (map[string]interface{}, error) {
	var reqBody io.Reader
	var rawBody []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		rawBody = data
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, gatewayURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Client-Version", "1.0.0")

	if verbose {
		printRequest(method, path, rawBody)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if verbose {
		printResponse(resp.StatusCode, data, time.Since(start))
	}

	var decoded map[string]interface{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil, fmt.Errorf("unexpected response (status %d)", resp.StatusCode)
		}
	}

	if resp.StatusCode >= 400 {
		if errObj, ok := decoded["error"].(map[string]interface{}); ok {
			return nil, fmt.Errorf("%s: %s", stringField(errObj, "code"), stringField(errObj, "message"))
		}
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	return decoded, nil
}

func printRequest(method, path string, body []byte) {
	fmt.Fprintf(os.Stderr, "%s→ %s %s%s\n", colorGray, method, path, colorReset)
	if len(body) > 0 {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", colorGray, string(body), colorReset)
	}
}

func printResponse(status int, body []byte, duration time.Duration) {
	fmt.Fprintf(os.Stderr, "%s← %d (%s)%s\n", colorGray, status, duration.Round(time.Millisecond), colorReset)
	if len(body) > 0 {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", colorGray, string(body), colorReset)
	}
}

func printSuccess(format string, args ...interface{}) {
	fmt.Printf("%s✓%s "+format+"\n", append([]interface{}{colorGreen, colorReset}, args...)...)
}

func printWarning(format string, args ...interface{}) {
	fmt.Printf("%s!%s "+format+"\n", append([]interface{}{colorYellow, colorReset}, args...)...)
}

func printInfo(format string, args ...interface{}) {
	fmt.Printf("%s·%s "+format+"\n", append([]interface{}{colorGray, colorReset}, args...)...)
}

func stringField(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func formatPrice(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("$%.2f", f)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%serror:%s "+format+"\n", append([]interface{}{colorRed, colorReset}, args...)...)
	os.Exit(1)
}
