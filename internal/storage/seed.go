package storage

import (
	"heartsignal_web/internal/models"
)

// SeedQuestions 在題庫為空時寫入預設題目
func SeedQuestions(db *PostgresDB) error {
	var count int64
	if err := db.Model(&models.Question{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Create(defaultQuestions()).Error
}

func defaultQuestions() []models.Question {
	return []models.Question{
		{Content: "你心目中理想的第一次約會是什麼樣子？", Category: models.CategoryRomance, Difficulty: 2},
		{Content: "你覺得一見鍾情存在嗎？", Category: models.CategoryRomance, Difficulty: 3},
		{Content: "戀愛中你最不能接受的一件事是什麼？", Category: models.CategoryRomance, Difficulty: 4},
		{Content: "如果喜歡上一個人，你會主動告白還是等待？", Category: models.CategoryRomance, Difficulty: 3},
		{Content: "你和朋友之間最難忘的一段回憶是什麼？", Category: models.CategoryFriendship, Difficulty: 2},
		{Content: "你覺得朋友之間最重要的是什麼？", Category: models.CategoryFriendship, Difficulty: 1},
		{Content: "你會如何安慰一個心情低落的朋友？", Category: models.CategoryFriendship, Difficulty: 2},
		{Content: "你最近一次大笑是因為什麼？", Category: models.CategoryFriendship, Difficulty: 1},
		{Content: "你覺得自己最大的優點和缺點分別是什麼？", Category: models.CategoryPersonality, Difficulty: 3},
		{Content: "壓力大的時候你通常怎麼調適？", Category: models.CategoryPersonality, Difficulty: 2},
		{Content: "別人對你的第一印象通常準確嗎？", Category: models.CategoryPersonality, Difficulty: 3},
		{Content: "你是計畫型的人還是隨興型的人？", Category: models.CategoryPersonality, Difficulty: 2},
		{Content: "你理想中的週末是怎麼度過的？", Category: models.CategoryLifestyle, Difficulty: 1},
		{Content: "你是早起的人還是夜貓子？", Category: models.CategoryLifestyle, Difficulty: 1},
		{Content: "最近有養成什麼新習慣嗎？", Category: models.CategoryLifestyle, Difficulty: 2},
		{Content: "你最想去旅行的地方是哪裡？", Category: models.CategoryLifestyle, Difficulty: 1},
		{Content: "你最喜歡的一部電影或一本書是什麼？", Category: models.CategoryPreferences, Difficulty: 1},
		{Content: "你更喜歡山還是海？為什麼？", Category: models.CategoryPreferences, Difficulty: 1},
		{Content: "如果只能吃一種食物過一個月，你會選什麼？", Category: models.CategoryPreferences, Difficulty: 2},
		{Content: "你聽音樂的口味是什麼樣的？", Category: models.CategoryPreferences, Difficulty: 1},
		{Content: "如果中了樂透頭獎，你的第一件事會做什麼？", Category: models.CategoryHypothetical, Difficulty: 2},
		{Content: "如果可以回到過去改變一件事，你會改變什麼？", Category: models.CategoryHypothetical, Difficulty: 4},
		{Content: "如果明天可以變成任何動物，你想當什麼？", Category: models.CategoryHypothetical, Difficulty: 1},
		{Content: "如果能和任何一位歷史人物吃晚餐，你會選誰？", Category: models.CategoryHypothetical, Difficulty: 3},
	}
}
