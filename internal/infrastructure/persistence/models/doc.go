// Package models holds the GORM persistence models. Each model maps a
// canonical domain type to its table and converts both ways; domain
// packages never see GORM tags.
package models
