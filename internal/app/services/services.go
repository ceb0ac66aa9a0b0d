package services

// Services defined in this package:
// - AuthService: registration, login, JWT issuance and profiles
// - CategoryService: storefront categories
// - ProductService: products and their exam links
// - OrderService: order placement and status transitions
// - EntitlementService: who may open which exam
// - ExamService: exam definitions and visibility
// - ImportService: spreadsheet answer key ingestion
// - SessionService: exam attempt state machine and reports

// Services bundles every service instance for dependency injection
type Services struct {
	Auth        *AuthService
	Category    *CategoryService
	Product     *ProductService
	Order       *OrderService
	Entitlement *EntitlementService
	Exam        *ExamService
	Import      *ImportService
	Session     *SessionService
}
