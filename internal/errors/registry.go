package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No veldt.json was found in this directory or any parent directory. Run 'veldt create' to scaffold a project, or run commands from inside one.",
		DocURL:   "https://veldt.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Config file is not valid JSON",
		Detail:   "veldt.json could not be parsed. Check for trailing commas and unquoted keys.",
		DocURL:   "https://veldt.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A field in veldt.json has a value outside its allowed range or set.",
		DocURL:   "https://veldt.dev/docs/errors/E102",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Missing required config field",
		Detail:   "A required field is absent from veldt.json.",
		DocURL:   "https://veldt.dev/docs/errors/E103",
	},

	// ============================================
	// Build Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryBuild,
		Message:  "Client build failed",
		Detail:   "The js/wasm compilation pass did not succeed. The compiler output above has the details.",
		DocURL:   "https://veldt.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryBuild,
		Message:  "Worker build failed",
		Detail:   "The server compilation pass did not succeed. The compiler output above has the details.",
		DocURL:   "https://veldt.dev/docs/errors/E121",
	},
	"E122": {
		Category: CategoryBuild,
		Message:  "wasm_exec.js not found",
		Detail:   "The wasm runtime shim could not be located under GOROOT. Check that your Go installation is complete.",
		DocURL:   "https://veldt.dev/docs/errors/E122",
	},
	"E123": {
		Category: CategoryBuild,
		Message:  "Asset fingerprinting failed",
		Detail:   "A build output file could not be hashed or renamed.",
		DocURL:   "https://veldt.dev/docs/errors/E123",
	},
	"E124": {
		Category: CategoryBuild,
		Message:  "Manifest write failed",
		Detail:   "manifest.json could not be written to the build output directory.",
		DocURL:   "https://veldt.dev/docs/errors/E124",
	},

	// ============================================
	// Dev Server Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryDev,
		Message:  "Dev server port in use",
		Detail:   "Another process is already listening on the configured port.",
		DocURL:   "https://veldt.dev/docs/errors/E140",
	},
	"E141": {
		Category: CategoryDev,
		Message:  "File watcher failed",
		Detail:   "The filesystem watcher could not be started. On Linux this is often an inotify watch limit.",
		DocURL:   "https://veldt.dev/docs/errors/E141",
	},
	"E142": {
		Category: CategoryDev,
		Message:  "App process exited",
		Detail:   "The application process died and could not be restarted.",
		DocURL:   "https://veldt.dev/docs/errors/E142",
	},

	// ============================================
	// Deploy Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryDeploy,
		Message:  "No build output to deploy",
		Detail:   "The build output directory is missing or empty. Run 'veldt build' first.",
		DocURL:   "https://veldt.dev/docs/errors/E160",
	},
	"E161": {
		Category: CategoryDeploy,
		Message:  "Bucket upload failed",
		Detail:   "An object could not be uploaded to the configured bucket. Check credentials and bucket permissions.",
		DocURL:   "https://veldt.dev/docs/errors/E161",
	},
	"E162": {
		Category: CategoryDeploy,
		Message:  "Deploy target not configured",
		Detail:   "veldt.json has no deploy section. Add the bucket and region to deploy.",
		DocURL:   "https://veldt.dev/docs/errors/E162",
	},

	// ============================================
	// Runtime Errors (E180-E199)
	// ============================================

	"E180": {
		Category: CategoryRuntime,
		Message:  "Asset manifest missing",
		Detail:   "The worker is running in prod mode but manifest.json could not be loaded.",
		DocURL:   "https://veldt.dev/docs/errors/E180",
	},
	"E181": {
		Category: CategoryRuntime,
		Message:  "Render failed",
		Detail:   "A page render returned an error before any output was written.",
		DocURL:   "https://veldt.dev/docs/errors/E181",
	},

	// ============================================
	// CLI Errors (E200-E219)
	// ============================================

	"E200": {
		Category: CategoryCLI,
		Message:  "Project directory already exists",
		Detail:   "The target directory for 'veldt create' already exists and is not empty.",
		DocURL:   "https://veldt.dev/docs/errors/E200",
	},
	"E201": {
		Category: CategoryCLI,
		Message:  "Invalid project name",
		Detail:   "Project names must be valid Go module path segments: lowercase letters, digits, and hyphens.",
		DocURL:   "https://veldt.dev/docs/errors/E201",
	},
}
