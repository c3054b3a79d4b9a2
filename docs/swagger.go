// Package docs RollCall API documentation
package docs

// Swagger documentation info
// @title RollCall API
// @version 1.0
// @description Event check-in and member roster management API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@rollcall.example.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @tag.name check-in
// @tag.description Public attendance check-in

// @tag.name events
// @tag.description Event administration and rosters

// @tag.name members
// @tag.description Member attendance history

// @tag.name contacts
// @tag.description Roster spreadsheet import

// @tag.name auth
// @tag.description Access-code session exchange

// @tag.name template-editor
// @tag.description Conversational email template editing
