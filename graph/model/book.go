package model

type Book struct {
	ID     int    `json:"-" gorm:"primaryKey"`
	Title  string `json:"title" gorm:"unique"`
	Author string `json:"author"`
	Price  int    `json:"price"`
}
