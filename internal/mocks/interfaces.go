package mocks

//go:generate mockgen -source=../llm/provider.go -destination=./llm_provider_mock.go -package=mocks

// The provider mock is generated. The repositories below are in-memory
// implementations so tests can run the real services against them.
