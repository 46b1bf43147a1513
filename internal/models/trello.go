package models

type TrelloList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TrelloCard struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Desc      string `json:"desc"`
	IDList    string `json:"idList"`
	ShortLink string `json:"shortLink"`
	URL       string `json:"url"`
}
