package constants

import "strings"

// RoomType classifies a room by keyword lookup only.
type RoomType string

const (
	Kitchen       RoomType = "kitchen"
	Bedroom       RoomType = "bedroom"
	MasterBedroom RoomType = "master_bedroom"
	Bathroom      RoomType = "bathroom"
	PowderRoom    RoomType = "powder_room"
	LivingRoom    RoomType = "living_room"
	FamilyRoom    RoomType = "family_room"
	DiningRoom    RoomType = "dining_room"
	Basement      RoomType = "basement"
	Garage        RoomType = "garage"
	Hallway       RoomType = "hallway"
	Closet        RoomType = "closet"
	Laundry       RoomType = "laundry"
	Office        RoomType = "office"
	OtherRoom     RoomType = "other"
)

var allRoomTypes = []RoomType{
	Kitchen,
	Bedroom,
	MasterBedroom,
	Bathroom,
	PowderRoom,
	LivingRoom,
	FamilyRoom,
	DiningRoom,
	Basement,
	Garage,
	Hallway,
	Closet,
	Laundry,
	Office,
	OtherRoom,
}

// RoomRule binds a room type to the keywords that identify it.
type RoomRule struct {
	Type     RoomType
	Keywords []string
}

// RoomRules is scanned in declaration order; the first rule with a keyword hit wins.
// Master bedroom is declared ahead of bedroom so "master bedroom" never falls into the
// generic bucket.
var RoomRules = []RoomRule{
	{Kitchen, []string{"kitchen", "kitc", "cook", "cabinet", "countertop", "pantry"}},
	{MasterBedroom, []string{"master", "master bedroom", "master bed", "mbr", "master br"}},
	{Bedroom, []string{"bedroom", "bed", "br", "guest room", "guest bed", "bdrm"}},
	{Bathroom, []string{"bathroom", "bath", "toilet", "shower", "restroom", "washroom"}},
	{PowderRoom, []string{"powder", "powder room", "half bath", "guest bath"}},
	{LivingRoom, []string{"living", "living room", "great room", "lounge", "front room"}},
	{FamilyRoom, []string{"family", "family room", "den", "rec room", "recreation"}},
	{DiningRoom, []string{"dining", "dining room", "dinner", "eat"}},
	{Basement, []string{"basement", "cellar", "lower", "downstairs", "below"}},
	{Garage, []string{"garage", "car", "parking"}},
	{Hallway, []string{"hallway", "hall", "corridor", "passage"}},
	{Closet, []string{"closet", "storage", "walk-in"}},
	{Laundry, []string{"laundry", "wash", "utility"}},
	{Office, []string{"office", "study", "den", "work"}},
}

// RoomTypesAsStrings returns every room type value, "other" included.
func RoomTypesAsStrings() []string {
	result := make([]string, len(allRoomTypes))
	for i, rt := range allRoomTypes {
		result[i] = string(rt)
	}
	return result
}

// RoomKeywords returns the keyword list for rt, or nil for "other" and unknown types.
func RoomKeywords(rt RoomType) []string {
	for _, rule := range RoomRules {
		if rule.Type == rt {
			return rule.Keywords
		}
	}
	return nil
}

// MatchRoomType returns the first room type with a keyword contained in text
// (case-insensitive) along with the keyword that hit.
func MatchRoomType(text string) (RoomType, string, bool) {
	lower := strings.ToLower(text)
	for _, rule := range RoomRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Type, kw, true
			}
		}
	}
	return OtherRoom, "", false
}

// ParseRoomType maps a stored value back to a RoomType; unknown values become "other".
func ParseRoomType(input string) (RoomType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, rt := range allRoomTypes {
		if normalized == string(rt) {
			return rt, true
		}
	}
	return OtherRoom, false
}
